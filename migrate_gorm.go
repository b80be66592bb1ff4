// migrate_gorm.go - Run this file to apply GORM migrations and lookup rows
// Usage: go run migrate_gorm.go

//go:build ignore

package main

import (
	"log"

	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/database"
	"gorm.io/gorm"
)

func main() {
	log.Println("=== GORM Migration ===")

	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Fatal("Failed to load environment variables:", err)
	}

	// Initialize GORM connection
	store, err := database.StartGORM()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	// Run migrations
	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	sqlDB, err := store.GetDB().(*gorm.DB).DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB:", err)
	}
	if err := database.NewPostgreSQLStore(sqlDB).EnsureLookups(); err != nil {
		log.Fatal("Failed to insert lookup rows:", err)
	}

	// Health check
	if err := store.HealthCheck(); err != nil {
		log.Fatal("Database health check failed:", err)
	}

	log.Println("✅ All migrations completed successfully!")
	log.Println("✅ Database connection healthy!")
	log.Println("\nTables:")
	log.Println("  - universities")
	log.Println("  - courses")
	log.Println("  - students")
	log.Println("  - orders")
	log.Println("  - order_statuses")
	log.Println("  - delivery_methods")
	log.Println("  - admin_users")
	log.Println("  - jwt_token_blacklist")
	log.Println("  - admin_audit_logs")
	log.Println("  - notification_logs")
	log.Println("  - cron_job_logs")
}
