package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/utils/auth"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db        *gorm.DB
	blacklist *auth.BlacklistService
}

// NewGORMStore wraps an already opened connection
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db, blacklist: auth.NewBlacklistService(db)}
}

// Blacklist exposes the revoked session list used by the admin auth middleware
func (s *GORMStore) Blacklist() *auth.BlacklistService {
	return s.blacklist
}

// DSN builds the PostgreSQL connection string from the environment
func DSN(getEnv *config.EnvironmentVariable) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(DSN(getEnv)), &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return NewGORMStore(db), nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		// Lookup tables
		&model.OrderStatus{},
		&model.DeliveryMethod{},

		// Catalog
		&model.University{},
		&model.Course{},

		// Checkout
		&model.Student{},
		&model.Order{},

		// Admin panel
		&model.AdminUser{},
		&model.JWTTokenBlacklist{},
		&model.AdminAuditLog{},

		// Logs
		&model.NotificationLog{},
		&model.CronJobLog{},
	)
	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in repositories/handlers
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ListUniversities returns universities ordered by id
func (s *GORMStore) ListUniversities(ctx context.Context, activeOnly bool) ([]model.University, error) {
	var universities []model.University
	query := s.db.WithContext(ctx).Order("id ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&universities).Error; err != nil {
		return nil, err
	}
	return universities, nil
}

func (s *GORMStore) GetUniversity(ctx context.Context, id uint) (*model.University, error) {
	var university model.University
	if err := s.db.WithContext(ctx).First(&university, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &university, nil
}

func (s *GORMStore) CreateUniversity(ctx context.Context, university *model.University) error {
	return s.db.WithContext(ctx).Create(university).Error
}

func (s *GORMStore) UpdateUniversity(ctx context.Context, university *model.University) error {
	return s.db.WithContext(ctx).Save(university).Error
}

// ListCourses returns courses ordered by id
func (s *GORMStore) ListCourses(ctx context.Context, filter CourseFilter) ([]model.Course, error) {
	var courses []model.Course
	query := s.db.WithContext(ctx).Order("id ASC")
	if filter.UniversityID != 0 {
		query = query.Where("university_id = ?", filter.UniversityID)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *GORMStore) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := s.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &course, nil
}

func (s *GORMStore) CreateCourse(ctx context.Context, course *model.Course) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

func (s *GORMStore) UpdateCourse(ctx context.Context, course *model.Course) error {
	return s.db.WithContext(ctx).Omit("University").Save(course).Error
}

func (s *GORMStore) CreateStudent(ctx context.Context, student *model.Student) error {
	return s.db.WithContext(ctx).Create(student).Error
}

func (s *GORMStore) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (s *GORMStore) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// ListOrderRows joins orders with their display names in insertion order
func (s *GORMStore) ListOrderRows(ctx context.Context, filter OrderFilter) ([]model.OrderRow, error) {
	query := s.db.WithContext(ctx).
		Table("orders AS o").
		Select(`o.id AS order_id, o.quantity, o.student_id, st.full_name AS student_name,
			st.phone_number, o.university_id, u.name AS university_name, u.delivery_fee AS university_delivery_fee, o.course_id,
			c.name AS course_name, c.price AS course_price, o.delivery_method_id,
			o.status_id, os.name AS status_name, o.order_date, o.notes, o.group_tag`).
		Joins("JOIN students st ON st.id = o.student_id").
		Joins("JOIN universities u ON u.id = o.university_id").
		Joins("JOIN courses c ON c.id = o.course_id").
		Joins("LEFT JOIN order_statuses os ON os.id = o.status_id").
		Order("o.id ASC")

	if filter.StatusID != nil {
		query = query.Where("o.status_id = ?", *filter.StatusID)
	}
	if filter.UniversityID != nil {
		query = query.Where("o.university_id = ?", *filter.UniversityID)
	}
	if filter.GroupTag != "" {
		query = query.Where("o.group_tag = ?", filter.GroupTag)
	}
	if len(filter.OrderIDs) > 0 {
		query = query.Where("o.id IN ?", filter.OrderIDs)
	}

	var rows []model.OrderRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateOrderStatus changes status_id of a single order row
func (s *GORMStore) UpdateOrderStatus(ctx context.Context, orderID, statusID uint) error {
	result := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("status_id", statusID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GORMStore) ListOrderStatuses(ctx context.Context) ([]model.OrderStatus, error) {
	var statuses []model.OrderStatus
	err := s.db.WithContext(ctx).Order("id ASC").Find(&statuses).Error
	return statuses, err
}

func (s *GORMStore) ListDeliveryMethods(ctx context.Context) ([]model.DeliveryMethod, error) {
	var methods []model.DeliveryMethod
	err := s.db.WithContext(ctx).Order("id ASC").Find(&methods).Error
	return methods, err
}

func (s *GORMStore) GetAdminByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

func (s *GORMStore) GetAdminByID(ctx context.Context, id uint) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := s.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

func (s *GORMStore) TouchAdminLogin(ctx context.Context, id uint, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.AdminUser{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).
		Error
}

func (s *GORMStore) CreateAuditLog(ctx context.Context, entry *model.AdminAuditLog) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

// ListAuditLogs returns one page of audit entries, newest first
func (s *GORMStore) ListAuditLogs(ctx context.Context, filter AuditLogFilter, page, limit int) ([]model.AdminAuditLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.AdminAuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if filter.AdminID != 0 {
		query = query.Where("admin_id = ?", filter.AdminID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.AdminAuditLog
	err := query.Preload("Admin").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).
		Error
	return logs, total, err
}

func (s *GORMStore) GetAuditLog(ctx context.Context, id uint) (*model.AdminAuditLog, error) {
	var entry model.AdminAuditLog
	if err := s.db.WithContext(ctx).Preload("Admin").First(&entry, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (s *GORMStore) CreateNotificationLog(ctx context.Context, entry *model.NotificationLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// PurgeNotificationLogs deletes notification logs created before the cutoff
func (s *GORMStore) PurgeNotificationLogs(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", before).Delete(&model.NotificationLog{})
	return result.RowsAffected, result.Error
}

func (s *GORMStore) CreateCronJobLog(ctx context.Context, entry *model.CronJobLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GORMStore) UpdateCronJobLog(ctx context.Context, entry *model.CronJobLog) error {
	return s.db.WithContext(ctx).Save(entry).Error
}

// PurgeExpiredTokens removes revoked tokens that are past expiry anyway
func (s *GORMStore) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.blacklist.CleanupExpiredTokens(ctx)
}

// CountOrphanedStudents counts students left without any order by an interrupted checkout
func (s *GORMStore) CountOrphanedStudents(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("NOT EXISTS (SELECT 1 FROM orders o WHERE o.student_id = students.id)").
		Count(&count).
		Error
	return count, err
}
