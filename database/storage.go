package database

import (
	"context"
	"errors"
	"time"

	"github.com/dosya-jo/dosya-api/model"
)

// ErrNotFound is returned when a lookup by id or key matches no row
var ErrNotFound = errors.New("record not found")

// CourseFilter narrows a course listing. Zero values disable a condition.
type CourseFilter struct {
	UniversityID uint
	IDs          []uint
	ActiveOnly   bool
}

// OrderFilter narrows the admin order listing. Nil pointers disable a condition.
type OrderFilter struct {
	StatusID     *uint
	UniversityID *uint
	GroupTag     string
	OrderIDs     []uint
}

// AuditLogFilter narrows the admin audit trail; zero values match everything
type AuditLogFilter struct {
	Action   string
	Resource string
	AdminID  uint
}

// CatalogStore reads and edits universities and courses
type CatalogStore interface {
	ListUniversities(ctx context.Context, activeOnly bool) ([]model.University, error)
	GetUniversity(ctx context.Context, id uint) (*model.University, error)
	CreateUniversity(ctx context.Context, university *model.University) error
	UpdateUniversity(ctx context.Context, university *model.University) error
	ListCourses(ctx context.Context, filter CourseFilter) ([]model.Course, error)
	GetCourse(ctx context.Context, id uint) (*model.Course, error)
	CreateCourse(ctx context.Context, course *model.Course) error
	UpdateCourse(ctx context.Context, course *model.Course) error
}

// OrderStore persists checkouts and serves the admin order views
type OrderStore interface {
	CreateStudent(ctx context.Context, student *model.Student) error
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrder(ctx context.Context, id uint) (*model.Order, error)
	ListOrderRows(ctx context.Context, filter OrderFilter) ([]model.OrderRow, error)
	UpdateOrderStatus(ctx context.Context, orderID, statusID uint) error
	ListOrderStatuses(ctx context.Context) ([]model.OrderStatus, error)
	ListDeliveryMethods(ctx context.Context) ([]model.DeliveryMethod, error)
}

// AdminStore covers admin accounts and their audit trail
type AdminStore interface {
	GetAdminByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	GetAdminByID(ctx context.Context, id uint) (*model.AdminUser, error)
	TouchAdminLogin(ctx context.Context, id uint, at time.Time) error
	CreateAuditLog(ctx context.Context, entry *model.AdminAuditLog) error
	ListAuditLogs(ctx context.Context, filter AuditLogFilter, page, limit int) ([]model.AdminAuditLog, int64, error)
	GetAuditLog(ctx context.Context, id uint) (*model.AdminAuditLog, error)
}

// NotificationLogStore records outbound notification attempts
type NotificationLogStore interface {
	CreateNotificationLog(ctx context.Context, entry *model.NotificationLog) error
	PurgeNotificationLogs(ctx context.Context, before time.Time) (int64, error)
}

// CronStore backs the scheduled maintenance jobs
type CronStore interface {
	CreateCronJobLog(ctx context.Context, entry *model.CronJobLog) error
	UpdateCronJobLog(ctx context.Context, entry *model.CronJobLog) error
	PurgeExpiredTokens(ctx context.Context) (int64, error)
	CountOrphanedStudents(ctx context.Context) (int64, error)
}

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() interface{} // Returns *gorm.DB for GORMStore, *sql.DB for PostgreSQLStore

	CatalogStore
	OrderStore
	AdminStore
	NotificationLogStore
	CronStore
}
