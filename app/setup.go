package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dosya-jo/dosya-api/api"
	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/router"
	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/services/cron"
	"github.com/dosya-jo/dosya-api/utils/cache"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		print("If not running, run the following command:\n")
		print("  make docker-up   (for Docker setup)\n")
		print("  make db-up       (for local PostgreSQL)\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		print("Error running migrations:\n")
		return err
	}

	// Seed lookup rows the checkout depends on
	if err := ensureLookups(store); err != nil {
		return fmt.Errorf("failed to seed lookup tables: %w", err)
	}

	// Redis is optional
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCacheWithAuth(getEnv.REDIS_URL, getEnv.REDIS_PASSWORD, getEnv.REDIS_DB)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v", err)
			redisCache = nil
		}
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(store, services.NewCatalogService(store, redisCache))
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	// Defer Closing DB, Redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	if err := router.SetupRoutes(app, store, store.Blacklist(), getEnv, redisCache); err != nil {
		return err
	}

	// Shut down on SIGINT/SIGTERM so deferred cleanup runs
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down API Server")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	// Get the PORT & Start the Server
	return server.Run()

}

// ensureLookups runs the raw SQL bootstrap over the GORM connection pool
func ensureLookups(store *database.GORMStore) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("unexpected database handle %T", store.GetDB())
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return database.NewPostgreSQLStore(sqlDB).Init()
}
