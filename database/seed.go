package database

import (
	"fmt"
	"log"

	"github.com/dosya-jo/dosya-api/config"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/utils/auth"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	env *config.EnvironmentVariable
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, env *config.EnvironmentVariable) *Seeder {
	return &Seeder{db: db, env: env}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedUniversities(); err != nil {
		return fmt.Errorf("failed to seed universities: %w", err)
	}

	if err := s.SeedCourses(); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.AdminUser{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	if s.env.ADMIN_USERNAME == "" || s.env.ADMIN_PASSWORD == "" {
		log.Println("⚠️  ADMIN_USERNAME and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(s.env.ADMIN_PASSWORD)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.AdminUser{
		Username:     s.env.ADMIN_USERNAME,
		PasswordHash: passwordHash,
		Role:         "admin",
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Username)
	return nil
}

// seedUniversities keeps explicit ids because delivery fee overrides are keyed by id
var seedUniversities = []model.University{
	{ID: 1, Name: "جامعة اليرموك", DeliveryFee: 1},
	{ID: 2, Name: "جامعة العلوم والتكنولوجيا الأردنية", DeliveryFee: 1.5},
	{ID: 3, Name: "جامعة جدارا", DeliveryFee: 1.5},
	{ID: 4, Name: "جامعة عجلون الوطنية", DeliveryFee: 2},
	{ID: 5, Name: "جامعة اربد الاهليه", DeliveryFee: 1},
	{ID: 6, Name: "جامعة الزيتونة الأردنية", DeliveryFee: 3},
	{ID: 7, Name: "جامعة جرش", DeliveryFee: 2},
	{ID: 8, Name: "جامعة آل البيت", DeliveryFee: 2.5},
	{ID: 9, Name: "جامعة فيلادلفيا", DeliveryFee: 1},
	{ID: 10, Name: "الجامعة الهاشمية", DeliveryFee: 1},
	{ID: 11, Name: "جامعة البلقاء التطبيقية", DeliveryFee: 2},
}

// SeedUniversities creates the universities served by the storefront
func (s *Seeder) SeedUniversities() error {
	var count int64
	if err := s.db.Model(&model.University{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Universities already exist, skipping...")
		return nil
	}

	universities := make([]model.University, len(seedUniversities))
	copy(universities, seedUniversities)
	for i := range universities {
		universities[i].IsActive = true
		universities[i].Slug = fmt.Sprintf("%s-%d", slug.Make(universities[i].Name), universities[i].ID)
	}

	if err := s.db.Create(&universities).Error; err != nil {
		return err
	}
	if err := s.db.Exec(`SELECT setval(pg_get_serial_sequence('universities', 'id'), (SELECT MAX(id) FROM universities))`).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d universities\n", len(universities))
	return nil
}

// SeedCourses creates sample summary packets for every university
func (s *Seeder) SeedCourses() error {
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Courses already exist, skipping...")
		return nil
	}

	var universities []model.University
	if err := s.db.Order("id ASC").Find(&universities).Error; err != nil {
		return err
	}

	if len(universities) == 0 {
		return fmt.Errorf("no universities found, seed universities first")
	}

	packets := []struct {
		Name  string
		Price float64
	}{
		{"برمجة 1", 5},
		{"برمجة 2", 6},
		{"C++", 5},
		{"البرمجة بلغة مختاره", 4},
		{"تراكيب البيانات", 6},
		{"قواعد البيانات", 5},
	}

	var courses []model.Course
	for _, university := range universities {
		for _, packet := range packets {
			courses = append(courses, model.Course{
				UniversityID: university.ID,
				Name:         packet.Name,
				Slug:         slug.Make(packet.Name),
				Description:  "دوسية ملخصة ومراجعة شاملة للمادة",
				Price:        packet.Price,
				IsActive:     true,
			})
		}
	}

	if err := s.db.Create(&courses).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d courses\n", len(courses))
	return nil
}
