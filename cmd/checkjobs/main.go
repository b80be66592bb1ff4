package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	limit := flag.Int("limit", 20, "number of cron runs to show")
	since := flag.Duration("since", 24*time.Hour, "window for notification failures")
	flag.Parse()

	// Load .env
	if err := config.LoadENV(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	db, err := gorm.Open(postgres.Open(database.DSN(getEnv)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("========================================")
	fmt.Println("CRON JOBS STATUS CHECK")
	fmt.Println("========================================")

	var runs []model.CronJobLog
	if err := db.Order("started_at DESC").Limit(*limit).Find(&runs).Error; err != nil {
		log.Fatalf("Failed to fetch cron runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("\n❌ No cron runs found in database")
	}
	for _, run := range runs {
		statusIcon := "🔄"
		switch run.Status {
		case "completed":
			statusIcon = "✅"
		case "failed":
			statusIcon = "❌"
		}

		fmt.Printf("%s %-28s %s (%dms)\n", statusIcon, run.JobName, run.StartedAt.Format("2006-01-02 15:04:05"), run.Duration)
		if run.Message != "" {
			fmt.Printf("   %s\n", run.Message)
		}
		if run.ErrorMsg != "" {
			fmt.Printf("   Error: %s\n", run.ErrorMsg)
		}
	}

	// Notification failures mean an order was placed without the shop hearing about it
	var failures []model.NotificationLog
	db.Where("status = ? AND created_at > ?", model.NotificationStatusFailed, time.Now().Add(-*since)).
		Order("created_at DESC").
		Find(&failures)

	fmt.Println("\n========================================")
	fmt.Printf("FAILED NOTIFICATIONS (last %s): %d\n", *since, len(failures))
	fmt.Println("========================================")

	for _, f := range failures {
		fmt.Printf("✗ [%s] order #%d %s at %s\n", f.Channel, f.OrderID, f.GroupTag, f.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Error: %s\n", truncate(f.Error, 120))
	}

	var orphaned int64
	db.Model(&model.Student{}).
		Where("NOT EXISTS (SELECT 1 FROM orders o WHERE o.student_id = students.id)").
		Count(&orphaned)
	fmt.Printf("\nStudents without orders: %d\n", orphaned)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
