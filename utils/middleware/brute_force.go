package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dosya-jo/dosya-api/utils/cache"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// BruteForceProtection throttles admin login attempts using Redis
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

// NewBruteForceProtection creates a new brute force protection instance.
// A nil cache disables the protection.
func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{
		redisCache: redisCache,
	}
}

func attemptKey(ip string) string {
	return fmt.Sprintf("brute_force:attempts:%s", ip)
}

func lockKey(ip string) string {
	return fmt.Sprintf("brute_force:lock:%s", ip)
}

func usernameKey(username string) string {
	return fmt.Sprintf("brute_force:user:%s", strings.ToLower(strings.TrimSpace(username)))
}

// LockoutDuration maps a failed attempt count to a lock duration
func LockoutDuration(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		return 24 * time.Hour
	case attempts >= 10:
		return time.Hour
	case attempts >= 5:
		return 2 * time.Minute
	default:
		return 0
	}
}

// CheckLockout middleware rejects locked-out client IPs
func (b *BruteForceProtection) CheckLockout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil || b.redisCache == nil {
			return c.Next()
		}

		key := lockKey(c.IP())
		locked, err := b.redisCache.Exists(c.UserContext(), key)
		if err != nil {
			// Redis being down must not lock out the admin
			return c.Next()
		}
		if !locked {
			return c.Next()
		}

		ttl, _ := b.redisCache.TTL(c.UserContext(), key)
		retryAfter := int(ttl.Seconds())
		if retryAfter <= 0 {
			retryAfter = 60
		}
		c.Set("Retry-After", strconv.Itoa(retryAfter))
		return response.TooManyRequests(c, "")
	}
}

// RecordFailedAttempt counts a failed login for the IP and the username
// and applies progressive lockouts to the IP.
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip, username string) error {
	if b == nil || b.redisCache == nil {
		return nil
	}

	if username != "" {
		if n, err := b.redisCache.Increment(ctx, usernameKey(username)); err == nil {
			if n == 1 {
				b.redisCache.Expire(ctx, usernameKey(username), 15*time.Minute)
			}
			if n >= 5 {
				log.Warnf("brute force: %d failed logins for %q", n, username)
			}
		}
	}

	attempts, err := b.redisCache.Increment(ctx, attemptKey(ip))
	if err != nil {
		return nil
	}

	// 15 minute counting window
	if attempts == 1 {
		b.redisCache.Expire(ctx, attemptKey(ip), 15*time.Minute)
	}

	lockDuration := LockoutDuration(attempts)
	if lockDuration == 0 {
		return nil
	}
	return b.redisCache.Set(ctx, lockKey(ip), "locked", lockDuration)
}

// RecordSuccessfulAttempt clears failed attempts on successful login
func (b *BruteForceProtection) RecordSuccessfulAttempt(ctx context.Context, ip, username string) error {
	if b == nil || b.redisCache == nil {
		return nil
	}
	return b.redisCache.Delete(ctx, attemptKey(ip), lockKey(ip), usernameKey(username))
}

// GetAttemptCount returns the current attempt count for an IP
func (b *BruteForceProtection) GetAttemptCount(ctx context.Context, ip string) (int, error) {
	if b == nil || b.redisCache == nil {
		return 0, nil
	}

	val, err := b.redisCache.Get(ctx, attemptKey(ip))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.Atoi(val)
}
