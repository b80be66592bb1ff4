package middleware

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dosya-jo/dosya-api/utils/cache"
	"github.com/gofiber/fiber/v2"
)

func TestLockoutDuration(t *testing.T) {
	tests := []struct {
		attempts int64
		want     time.Duration
	}{
		{1, 0},
		{4, 0},
		{5, 2 * time.Minute},
		{9, 2 * time.Minute},
		{10, time.Hour},
		{24, time.Hour},
		{25, 24 * time.Hour},
	}
	for _, tt := range tests {
		if got := LockoutDuration(tt.attempts); got != tt.want {
			t.Errorf("LockoutDuration(%d) = %v, want %v", tt.attempts, got, tt.want)
		}
	}
}

func TestBruteForceDisabledWithoutRedis(t *testing.T) {
	var nilProtection *BruteForceProtection
	for _, b := range []*BruteForceProtection{nilProtection, NewBruteForceProtection(nil)} {
		if err := b.RecordFailedAttempt(context.Background(), "1.2.3.4", "operator"); err != nil {
			t.Errorf("RecordFailedAttempt() error = %v", err)
		}
		if n, err := b.GetAttemptCount(context.Background(), "1.2.3.4"); n != 0 || err != nil {
			t.Errorf("GetAttemptCount() = %d, %v", n, err)
		}

		app := fiber.New()
		app.Post("/login", b.CheckLockout(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	}
}

func TestBruteForceLocksAfterFiveFailures(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	redisCache, err := cache.NewRedisCache(url)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer redisCache.Close()

	b := NewBruteForceProtection(redisCache)
	app := fiber.New()
	app.Post("/login", b.CheckLockout(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	ctx := context.Background()
	ip := "0.0.0.0"
	if err := b.RecordSuccessfulAttempt(ctx, ip, "operator"); err != nil {
		t.Fatalf("reset error = %v", err)
	}
	defer b.RecordSuccessfulAttempt(ctx, ip, "operator")

	for i := 0; i < 5; i++ {
		if err := b.RecordFailedAttempt(ctx, ip, "operator"); err != nil {
			t.Fatalf("RecordFailedAttempt() error = %v", err)
		}
	}
	if n, _ := b.GetAttemptCount(ctx, ip); n != 5 {
		t.Errorf("GetAttemptCount() = %d, want 5", n)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}
