package config

import (
	"os"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	// All variables
	GO_ENV       string `env:"GO_ENV" envDefault:"development"`
	DB_USER_NAME string `env:"DB_USER_NAME" envDefault:"postgres"`
	DB_PASSWORD  string `env:"DB_PASSWORD"`
	DB_NAME      string `env:"DB_NAME" envDefault:"dosya"`
	DB_HOST      string `env:"DB_HOST" envDefault:"localhost"`
	DB_PORT      string `env:"DB_PORT" envDefault:"5432"`
	DB_SSL_MODE  string `env:"DB_SSL_MODE" envDefault:"disable"`
	PORT         int    `env:"PORT" envDefault:"8080"`
	// JWT Configuration
	JWT_SECRET string `env:"JWT_SECRET"`
	JWT_ISSUER string `env:"JWT_ISSUER" envDefault:"dosya-api"`
	// Redis Configuration
	REDIS_URL      string `env:"REDIS_URL"`
	REDIS_PASSWORD string `env:"REDIS_PASSWORD"`
	REDIS_DB       int    `env:"REDIS_DB" envDefault:"0"`
	// Telegram order notifications
	TELEGRAM_BOT_TOKEN string `env:"TELEGRAM_BOT_TOKEN"`
	TELEGRAM_CHAT_ID   string `env:"TELEGRAM_CHAT_ID"`
	// Email order notifications
	SMTP_HOST     string `env:"SMTP_HOST"`
	SMTP_PORT     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTP_USERNAME string `env:"SMTP_USERNAME"`
	SMTP_PASSWORD string `env:"SMTP_PASSWORD"`
	SMTP_FROM     string `env:"SMTP_FROM"`
	ADMIN_EMAIL   string `env:"ADMIN_EMAIL"`
	// Spaces (S3 compatible) storage for course PDFs
	SPACES_ACCESS_KEY string `env:"SPACES_ACCESS_KEY"`
	SPACES_SECRET_KEY string `env:"SPACES_SECRET_KEY"`
	SPACES_BUCKET     string `env:"SPACES_BUCKET"`
	SPACES_REGION     string `env:"SPACES_REGION" envDefault:"fra1"`
	SPACES_ENDPOINT   string `env:"SPACES_ENDPOINT"`
	// HTTP
	ALLOWED_ORIGINS []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	// Background jobs
	CRON_ENABLED bool `env:"CRON_ENABLED" envDefault:"true"`
	// Bootstrap admin account
	ADMIN_USERNAME string `env:"ADMIN_USERNAME"`
	ADMIN_PASSWORD string `env:"ADMIN_PASSWORD"`
}

// IsProduction reports whether GO_ENV selects production behaviour
func (e *EnvironmentVariable) IsProduction() bool {
	return strings.EqualFold(e.GO_ENV, "production")
}

// TelegramConfigured reports whether both Telegram credentials are present
func (e *EnvironmentVariable) TelegramConfigured() bool {
	return e.TELEGRAM_BOT_TOKEN != "" && e.TELEGRAM_CHAT_ID != ""
}

var (
	cached    *EnvironmentVariable
	cachedErr error
	once      sync.Once
)

// Get parses the environment once and returns the shared configuration
func Get() (*EnvironmentVariable, error) {
	once.Do(func() {
		cached, cachedErr = Parse()
	})
	return cached, cachedErr
}

// Parse reads the environment into a fresh EnvironmentVariable without caching
func Parse() (*EnvironmentVariable, error) {
	envVariables := &EnvironmentVariable{}
	if err := env.Parse(envVariables); err != nil {
		return nil, err
	}
	return envVariables, nil
}
