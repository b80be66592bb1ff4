package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/database"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	// Initialize database connection using GORM
	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	gormDB := store.GetDB().(*gorm.DB)
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Failed to get sql.DB: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("Dosya - Database Seeding")
	fmt.Println(separator)
	fmt.Println()

	if err := ensureLookups(sqlDB); err != nil {
		log.Fatalf("❌ Lookup bootstrap failed: %v", err)
	}

	if err := database.NewSeeder(gormDB, getEnv).SeedAll(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	fmt.Println()
	fmt.Println(separator)
	fmt.Println("🎉 Seeding completed successfully!")
	fmt.Println(separator)
	fmt.Println()
	fmt.Println("Admin user created from ADMIN_USERNAME and ADMIN_PASSWORD environment variables.")
	fmt.Println("If not set, admin user creation is skipped.")
	fmt.Println()
}

func ensureLookups(db *sql.DB) error {
	return database.NewPostgreSQLStore(db).Init()
}
