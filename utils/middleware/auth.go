package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/dosya-jo/dosya-api/utils/auth"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// SessionCookieName holds the admin session token set at login
const SessionCookieName = "admin_token"

// SessionChecker reports revoked and invalidated admin sessions
type SessionChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	GetAdminTokenVersion(ctx context.Context, adminID uint) (int, error)
}

// AuthMiddleware handles JWT authentication of admin panel requests
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	sessions   SessionChecker
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, sessions SessionChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		sessions:   sessions,
	}
}

// TokenFromRequest reads the session token from the cookie or a Bearer header
func TokenFromRequest(c *fiber.Ctx) (string, bool) {
	if token := c.Cookies(SessionCookieName); token != "" {
		return token, true
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAdmin rejects requests without a live admin session. Expired,
// revoked and invalidated sessions get SESSION_EXPIRED so the panel can send
// the operator back to the login page.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := TokenFromRequest(c)
		if !ok {
			return response.Unauthorized(c, "")
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return response.SessionExpired(c)
			}
			return response.Unauthorized(c, "")
		}

		// Check if token is revoked (blacklisted)
		isRevoked, err := m.sessions.IsTokenRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return response.InternalServerError(c, "")
		}
		if isRevoked {
			return response.SessionExpired(c)
		}

		// Check if token version matches
		version, err := m.sessions.GetAdminTokenVersion(c.UserContext(), claims.AdminID)
		if err != nil {
			return response.SessionExpired(c)
		}
		if version != claims.TokenVersion {
			return response.SessionExpired(c)
		}

		if claims.Role != "admin" {
			return response.Forbidden(c, "")
		}

		c.Locals("admin_id", claims.AdminID)
		c.Locals("admin_username", claims.Username)
		c.Locals("claims", claims)
		c.Locals("token_jti", claims.ID)

		return c.Next()
	}
}

// GetAdminID extracts admin ID from context
func GetAdminID(c *fiber.Ctx) (uint, bool) {
	adminID := c.Locals("admin_id")
	if adminID == nil {
		return 0, false
	}
	id, ok := adminID.(uint)
	return id, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.Claims)
	return claimsData, ok
}
