package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/utils/auth"
	"github.com/gofiber/fiber/v2/log"
)

// SessionRevoker blacklists admin session tokens
type SessionRevoker interface {
	RevokeToken(ctx context.Context, jti string, adminID uint, expiresAt time.Time, reason string) error
}

// AdminSession is an issued admin panel session
type AdminSession struct {
	Admin     *model.AdminUser
	Token     string
	ExpiresAt time.Time
}

// AdminAuthService logs operators in and out of the admin panel
type AdminAuthService struct {
	store   database.AdminStore
	jwt     *auth.JWTManager
	revoker SessionRevoker
	now     func() time.Time
}

// NewAdminAuthService creates an admin auth service
func NewAdminAuthService(store database.AdminStore, jwt *auth.JWTManager, revoker SessionRevoker) *AdminAuthService {
	return &AdminAuthService{
		store:   store,
		jwt:     jwt,
		revoker: revoker,
		now:     time.Now,
	}
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials.
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (*AdminSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if err := auth.VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, _, expiresAt, err := s.jwt.GenerateSessionToken(admin.ID, admin.Username, admin.Role, admin.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	now := s.now()
	if err := s.store.TouchAdminLogin(ctx, admin.ID, now); err != nil {
		log.Warnf("admin auth: failed to record login for %d: %v", admin.ID, err)
	} else {
		admin.LastLoginAt = &now
	}

	return &AdminSession{Admin: admin, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session identified by the token claims
func (s *AdminAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	expiresAt := s.now().Add(s.jwt.Expiry())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revoker.RevokeToken(ctx, claims.ID, claims.AdminID, expiresAt, "logout"); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// Me returns the admin behind a session
func (s *AdminAuthService) Me(ctx context.Context, adminID uint) (*model.AdminUser, error) {
	admin, err := s.store.GetAdminByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	return admin, nil
}
