package admin

import (
	"errors"
	"time"

	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/utils/middleware"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/dosya-jo/dosya-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/jinzhu/copier"
)

// AuthHandler handles admin panel login and logout
type AuthHandler struct {
	auth                 *services.AdminAuthService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
	secureCookie         bool
}

// NewAuthHandler creates a new admin auth handler; bruteForceProtection may be nil
func NewAuthHandler(auth *services.AdminAuthService, bruteForceProtection *middleware.BruteForceProtection, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		auth:                 auth,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
		secureCookie:         secureCookie,
	}
}

// LoginRequest represents an admin login request
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// AdminResponse is the admin profile returned to the panel
type AdminResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Admin     AdminResponse `json:"admin"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// Login handles POST /api/v1/admin/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	ip := c.IP()
	session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.bruteForceProtection.RecordFailedAttempt(c.UserContext(), ip, req.Username)
			return response.Unauthorized(c, response.MsgInvalidCredentials)
		}
		log.Errorf("admin login: %v", err)
		return response.InternalServerError(c, "")
	}

	// Clear failed attempts on successful login
	h.bruteForceProtection.RecordSuccessfulAttempt(c.UserContext(), ip, req.Username)

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return response.Success(c, LoginResponse{
		Admin:     adminResponse(session.Admin),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout handles POST /api/v1/admin/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	if err := h.auth.Logout(c.UserContext(), claims); err != nil {
		log.Errorf("admin logout: %v", err)
		return response.InternalServerError(c, "")
	}

	c.ClearCookie(middleware.SessionCookieName)
	return response.SuccessWithMessage(c, response.MsgLoggedOut, nil)
}

// Me handles GET /api/v1/admin/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	admin, err := h.auth.Me(c.UserContext(), adminID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return response.SessionExpired(c)
		}
		log.Errorf("admin me: %v", err)
		return response.InternalServerError(c, "")
	}
	return response.Success(c, adminResponse(admin))
}

func adminResponse(admin *model.AdminUser) AdminResponse {
	var out AdminResponse
	_ = copier.Copy(&out, admin)
	return out
}
