package router

import (
	"errors"
	"log"
	"time"

	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/handlers"
	admin_handlers "github.com/dosya-jo/dosya-api/handlers/admin"
	cart_handlers "github.com/dosya-jo/dosya-api/handlers/cart"
	course_handlers "github.com/dosya-jo/dosya-api/handlers/course"
	order_handlers "github.com/dosya-jo/dosya-api/handlers/order"
	university_handlers "github.com/dosya-jo/dosya-api/handlers/university"
	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/services/cart"
	"github.com/dosya-jo/dosya-api/services/storage"
	"github.com/dosya-jo/dosya-api/services/telegram"
	"github.com/dosya-jo/dosya-api/utils"
	"github.com/dosya-jo/dosya-api/utils/auth"
	"github.com/dosya-jo/dosya-api/utils/cache"
	"github.com/dosya-jo/dosya-api/utils/middleware"
	"github.com/gofiber/fiber/v2"
)

// ErrMissingJWTSecret is returned when JWT_SECRET is not set
var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is not set")

// SessionStore checks and revokes admin sessions
type SessionStore interface {
	middleware.SessionChecker
	services.SessionRevoker
}

// SessionTTL is the lifetime of an admin panel session
const SessionTTL = 12 * time.Hour

// SetupRoutes wires services and handlers onto the app. redisCache may be
// nil, in which case carts live in memory and brute force protection is off.
func SetupRoutes(app *fiber.App, store database.Storage, sessions SessionStore, getEnv *config.EnvironmentVariable, redisCache *cache.RedisCache) error {
	if getEnv.JWT_SECRET == "" {
		return ErrMissingJWTSecret
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: getEnv.JWT_SECRET,
		Expiry: SessionTTL,
		Issuer: getEnv.JWT_ISSUER,
	})

	// Carts survive restarts only when Redis is available
	var carts cart.Store
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		carts = cart.NewRedisStore(redisCache, cart.DefaultTTL)
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	} else {
		log.Println("Warning: Redis is not configured. Carts are kept in memory and brute force protection is disabled.")
		carts = cart.NewMemoryStore(cart.DefaultTTL)
	}

	// Notification channels
	telegramClient := telegram.NewClient(telegram.Config{
		BotToken: getEnv.TELEGRAM_BOT_TOKEN,
		ChatID:   getEnv.TELEGRAM_CHAT_ID,
	}, nil)
	if !getEnv.TelegramConfigured() {
		log.Println("Warning: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID is missing. Telegram order notifications will be skipped.")
	}
	emailService := services.NewEmailService(getEnv)
	notifier := services.NewNotificationService(store, telegramClient, emailService)

	// Course packet storage
	var bucket storage.ObjectStorage
	spacesClient, err := storage.NewSpacesClientFromEnv(getEnv)
	switch {
	case err == nil:
		bucket = spacesClient
	case errors.Is(err, storage.ErrNotConfigured):
		log.Println("Warning: Spaces storage is not configured. Course PDF uploads are disabled.")
	default:
		log.Printf("Warning: Failed to create Spaces client: %v. Course PDF uploads are disabled.", err)
	}

	// Services
	catalogService := services.NewCatalogService(store, redisCache)
	orderService := services.NewOrderService(store, catalogService, notifier)
	orderAdminService := services.NewOrderAdminService(store, store)
	receiptService := services.NewReceiptService(orderAdminService)
	coursePDFService := services.NewCoursePDFService(catalogService, bucket)
	adminAuthService := services.NewAdminAuthService(store, jwtManager, sessions)

	// Handlers
	universityHandler := university_handlers.NewUniversityHandler(catalogService)
	courseHandler := course_handlers.NewCourseHandler(catalogService, coursePDFService)
	cartHandler := cart_handlers.NewCartHandler(carts, catalogService, orderService)
	orderHandler := order_handlers.NewOrderHandler(orderService, receiptService)
	adminAuthHandler := admin_handlers.NewAuthHandler(adminAuthService, bruteForceProtection, getEnv.IsProduction())
	adminOrderHandler := admin_handlers.NewOrderHandler(orderAdminService)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessions)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")
	api.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// Catalog routes (public)
	api.Get("/universities", universityHandler.ListUniversities)
	api.Get("/universities/:id", universityHandler.GetUniversity)
	api.Get("/universities/:id/courses", universityHandler.ListCourses)
	api.Get("/courses/:id", courseHandler.GetCourse)
	api.Get("/courses/:id/pdf", courseHandler.DownloadPDF)
	api.Get("/order-form", universityHandler.OrderForm)

	// Cart routes (public)
	cartGroup := api.Group("/carts")
	cartGroup.Post("/", cartHandler.CreateCart)
	cartGroup.Get("/:id", cartHandler.GetCart)
	cartGroup.Post("/:id/lines", cartHandler.AddLine)
	cartGroup.Put("/:id/lines/:course_id", cartHandler.UpdateLine)
	cartGroup.Delete("/:id/lines/:course_id", cartHandler.RemoveLine)
	cartGroup.Post("/:id/checkout", cartHandler.Checkout)

	// Order routes (public)
	api.Post("/orders", orderHandler.CreateOrder)
	api.Get("/orders/:id/receipt", orderHandler.GetReceipt)

	// Admin routes
	adminGroup := api.Group("/admin")

	adminAuth := adminGroup.Group("/auth")
	adminAuth.Post("/login", bruteForceProtection.CheckLockout(), adminAuthHandler.Login)
	adminAuth.Post("/logout", authMiddleware.RequireAdmin(), adminAuthHandler.Logout)
	adminAuth.Get("/me", authMiddleware.RequireAdmin(), adminAuthHandler.Me)

	protected := adminGroup.Group("", authMiddleware.RequireAdmin())

	protected.Get("/orders", adminOrderHandler.ListOrders)
	protected.Get("/orders/:id", adminOrderHandler.GetOrder)
	protected.Put("/orders/:id/status", adminOrderHandler.UpdateStatus)
	protected.Get("/order-statuses", adminOrderHandler.ListStatuses)
	protected.Get("/delivery-methods", adminOrderHandler.ListDeliveryMethods)

	protected.Get("/universities", universityHandler.ListAllUniversities)
	protected.Post("/universities", middleware.AdminAuditLog(store, "university_create", "universities"), universityHandler.CreateUniversity)
	protected.Put("/universities/:id", middleware.AdminAuditLog(store, "university_update", "universities"), universityHandler.UpdateUniversity)
	protected.Post("/courses", middleware.AdminAuditLog(store, "course_create", "courses"), courseHandler.CreateCourse)
	protected.Put("/courses/:id", middleware.AdminAuditLog(store, "course_update", "courses"), courseHandler.UpdateCourse)
	protected.Post("/courses/:id/pdf", middleware.AdminAuditLog(store, "course_pdf_upload", "courses"), courseHandler.UploadPDF)

	protected.Get("/audit-logs", utils.MakeHTTPHandleFunc(admin_handlers.ListAuditLogs, store))
	protected.Get("/audit-logs/:id", utils.MakeHTTPHandleFunc(admin_handlers.GetAuditLog, store))

	return nil
}
