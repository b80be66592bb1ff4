package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/utils/cache"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gosimple/slug"
)

const (
	catalogCacheTTL        = 5 * time.Minute
	catalogUniversitiesKey = "catalog:universities"
	catalogCachePattern    = "catalog:*"
)

func catalogCoursesKey(universityID uint) string {
	return fmt.Sprintf("catalog:universities:%d:courses", universityID)
}

// CatalogService serves the sellable universities and courses. Reads go
// through Redis when a cache is configured.
type CatalogService struct {
	store database.CatalogStore
	cache *cache.RedisCache
}

// NewCatalogService creates a catalog service; redisCache may be nil
func NewCatalogService(store database.CatalogStore, redisCache *cache.RedisCache) *CatalogService {
	return &CatalogService{store: store, cache: redisCache}
}

// ActiveUniversities lists active universities ordered by id
func (s *CatalogService) ActiveUniversities(ctx context.Context) ([]model.University, error) {
	var universities []model.University
	if s.readCache(ctx, catalogUniversitiesKey, &universities) {
		return universities, nil
	}

	universities, err := s.store.ListUniversities(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}

	s.writeCache(ctx, catalogUniversitiesKey, universities)
	return universities, nil
}

// AllUniversities lists every university for the admin panel
func (s *CatalogService) AllUniversities(ctx context.Context) ([]model.University, error) {
	universities, err := s.store.ListUniversities(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	return universities, nil
}

// University returns a university by id
func (s *CatalogService) University(ctx context.Context, id uint) (*model.University, error) {
	university, err := s.store.GetUniversity(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("failed to get university %d: %w", id, err)
	}
	return university, nil
}

// ActiveCourses lists the active courses of a university ordered by id
func (s *CatalogService) ActiveCourses(ctx context.Context, universityID uint) ([]model.Course, error) {
	key := catalogCoursesKey(universityID)

	var courses []model.Course
	if s.readCache(ctx, key, &courses) {
		return courses, nil
	}

	courses, err := s.store.ListCourses(ctx, database.CourseFilter{UniversityID: universityID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses for university %d: %w", universityID, err)
	}

	s.writeCache(ctx, key, courses)
	return courses, nil
}

// Course returns a course by id
func (s *CatalogService) Course(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %d: %w", id, err)
	}
	return course, nil
}

// CoursesByID loads courses keyed by id; unknown ids are absent from the map
func (s *CatalogService) CoursesByID(ctx context.Context, ids []uint) (map[uint]model.Course, error) {
	out := make(map[uint]model.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	courses, err := s.store.ListCourses(ctx, database.CourseFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	for _, course := range courses {
		out[course.ID] = course
	}
	return out, nil
}

// Prices extracts the current price of each course
func Prices(courses map[uint]model.Course) map[uint]float64 {
	prices := make(map[uint]float64, len(courses))
	for id, course := range courses {
		prices[id] = course.Price
	}
	return prices
}

// OrderFormPrefill is the initial selection of the order form
type OrderFormPrefill struct {
	UniversityID *uint              `json:"university_id"`
	CourseID     *uint              `json:"course_id"`
	Universities []model.University `json:"universities"`
	Courses      []model.Course     `json:"courses"`
}

// Prefill resolves the courseId/universityId query parameters. Missing,
// malformed or unknown ids leave the matching field empty. A known course
// selects its university when none was given.
func (s *CatalogService) Prefill(ctx context.Context, courseParam, universityParam string) (*OrderFormPrefill, error) {
	universities, err := s.ActiveUniversities(ctx)
	if err != nil {
		return nil, err
	}
	prefill := &OrderFormPrefill{Universities: universities, Courses: []model.Course{}}

	if id, ok := parseID(universityParam); ok {
		for _, u := range universities {
			if u.ID == id {
				uid := u.ID
				prefill.UniversityID = &uid
				break
			}
		}
	}

	if id, ok := parseID(courseParam); ok {
		course, err := s.Course(ctx, id)
		switch {
		case errors.Is(err, ErrCourseNotFound):
		case err != nil:
			return nil, err
		case !course.IsActive:
		case prefill.UniversityID == nil || *prefill.UniversityID == course.UniversityID:
			cid, uid := course.ID, course.UniversityID
			prefill.CourseID = &cid
			if prefill.UniversityID == nil && containsUniversity(universities, uid) {
				prefill.UniversityID = &uid
			}
		}
	}

	if prefill.UniversityID != nil {
		courses, err := s.ActiveCourses(ctx, *prefill.UniversityID)
		if err != nil {
			return nil, err
		}
		prefill.Courses = courses
	}

	return prefill, nil
}

func containsUniversity(universities []model.University, id uint) bool {
	for _, u := range universities {
		if u.ID == id {
			return true
		}
	}
	return false
}

func parseID(raw string) (uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// UniversityInput carries admin edits; nil fields are left unchanged on update
type UniversityInput struct {
	Name        *string
	DeliveryFee *float64
	IsActive    *bool
}

// CreateUniversity adds a university and invalidates the cache
func (s *CatalogService) CreateUniversity(ctx context.Context, in UniversityInput) (*model.University, error) {
	university := &model.University{IsActive: true}
	applyUniversityInput(university, in)

	if err := s.store.CreateUniversity(ctx, university); err != nil {
		return nil, fmt.Errorf("failed to create university: %w", err)
	}
	university.Slug = fmt.Sprintf("%s-%d", slug.Make(university.Name), university.ID)
	if err := s.store.UpdateUniversity(ctx, university); err != nil {
		return nil, fmt.Errorf("failed to set university slug: %w", err)
	}

	s.InvalidateCache(ctx)
	return university, nil
}

// UpdateUniversity applies admin edits to a university
func (s *CatalogService) UpdateUniversity(ctx context.Context, id uint, in UniversityInput) (*model.University, error) {
	university, err := s.University(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUniversityInput(university, in)
	if in.Name != nil {
		university.Slug = fmt.Sprintf("%s-%d", slug.Make(university.Name), university.ID)
	}

	if err := s.store.UpdateUniversity(ctx, university); err != nil {
		return nil, fmt.Errorf("failed to update university %d: %w", id, err)
	}

	s.InvalidateCache(ctx)
	return university, nil
}

func applyUniversityInput(u *model.University, in UniversityInput) {
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.DeliveryFee != nil {
		u.DeliveryFee = *in.DeliveryFee
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
}

// CourseInput carries admin edits; nil fields are left unchanged on update
type CourseInput struct {
	UniversityID *uint
	Name         *string
	Description  *string
	Price        *float64
	IsActive     *bool
}

// CreateCourse adds a course to an existing university
func (s *CatalogService) CreateCourse(ctx context.Context, in CourseInput) (*model.Course, error) {
	if in.UniversityID == nil {
		return nil, ErrUniversityNotFound
	}
	if _, err := s.University(ctx, *in.UniversityID); err != nil {
		return nil, err
	}

	course := &model.Course{IsActive: true}
	applyCourseInput(course, in)
	course.Slug = slug.Make(course.Name)

	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.InvalidateCache(ctx)
	return course, nil
}

// UpdateCourse applies admin edits to a course
func (s *CatalogService) UpdateCourse(ctx context.Context, id uint, in CourseInput) (*model.Course, error) {
	course, err := s.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.UniversityID != nil && *in.UniversityID != course.UniversityID {
		if _, err := s.University(ctx, *in.UniversityID); err != nil {
			return nil, err
		}
	}

	applyCourseInput(course, in)
	if in.Name != nil {
		course.Slug = slug.Make(course.Name)
	}

	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course %d: %w", id, err)
	}

	s.InvalidateCache(ctx)
	return course, nil
}

// SetCoursePDFKey records the object key of an uploaded digital copy
func (s *CatalogService) SetCoursePDFKey(ctx context.Context, id uint, key string) (*model.Course, error) {
	course, err := s.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	course.PDFKey = key
	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to set pdf key for course %d: %w", id, err)
	}
	s.InvalidateCache(ctx)
	return course, nil
}

func applyCourseInput(c *model.Course, in CourseInput) {
	if in.UniversityID != nil {
		c.UniversityID = *in.UniversityID
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

// WarmCache loads every active university and its courses into the cache
func (s *CatalogService) WarmCache(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	universities, err := s.store.ListUniversities(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to list universities: %w", err)
	}
	s.writeCache(ctx, catalogUniversitiesKey, universities)

	for _, u := range universities {
		courses, err := s.store.ListCourses(ctx, database.CourseFilter{UniversityID: u.ID, ActiveOnly: true})
		if err != nil {
			return 0, fmt.Errorf("failed to list courses for university %d: %w", u.ID, err)
		}
		s.writeCache(ctx, catalogCoursesKey(u.ID), courses)
	}
	return len(universities), nil
}

// InvalidateCache drops every cached catalog entry
func (s *CatalogService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.DeletePattern(ctx, catalogCachePattern); err != nil {
		log.Warnf("catalog: failed to invalidate cache: %v", err)
	}
}

func (s *CatalogService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.GetJSON(ctx, key, dest); err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Warnf("catalog: cache read %s failed: %v", key, err)
		}
		return false
	}
	return true
}

func (s *CatalogService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, catalogCacheTTL); err != nil {
		log.Warnf("catalog: cache write %s failed: %v", key, err)
	}
}
