package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dosya-jo/dosya-api/model"
)

func uintValue(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}

func TestPrefill(t *testing.T) {
	tests := []struct {
		name           string
		course         string
		university     string
		wantCourse     uint
		wantUniversity uint
		wantCourses    int
	}{
		{"no params", "", "", 0, 0, 0},
		{"university only", "", "1", 0, 1, 2},
		{"course selects its university", "21", "", 21, 10, 1},
		{"course and matching university", "11", "1", 11, 1, 2},
		{"course from another university", "21", "1", 0, 1, 2},
		{"unknown course", "999", "", 0, 0, 0},
		{"inactive course", "13", "", 0, 0, 0},
		{"malformed ids", "abc", "-1", 0, 0, 0},
		{"inactive university", "", "4", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			seedCatalog(store)
			svc := NewCatalogService(store, nil)

			prefill, err := svc.Prefill(context.Background(), tt.course, tt.university)
			if err != nil {
				t.Fatalf("Prefill() error = %v", err)
			}
			if got := uintValue(prefill.CourseID); got != tt.wantCourse {
				t.Errorf("CourseID = %d, want %d", got, tt.wantCourse)
			}
			if got := uintValue(prefill.UniversityID); got != tt.wantUniversity {
				t.Errorf("UniversityID = %d, want %d", got, tt.wantUniversity)
			}
			if len(prefill.Courses) != tt.wantCourses {
				t.Errorf("Courses = %d, want %d", len(prefill.Courses), tt.wantCourses)
			}
			if len(prefill.Universities) != 2 {
				t.Errorf("Universities = %d, want 2 active", len(prefill.Universities))
			}
		})
	}
}

func TestActiveCoursesOrderedAndFiltered(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := NewCatalogService(store, nil)

	courses, err := svc.ActiveCourses(context.Background(), 1)
	if err != nil {
		t.Fatalf("ActiveCourses() error = %v", err)
	}
	if len(courses) != 2 || courses[0].ID != 11 || courses[1].ID != 12 {
		t.Errorf("courses = %+v", courses)
	}
}

func TestCoursesByIDAndPrices(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := NewCatalogService(store, nil)

	courses, err := svc.CoursesByID(context.Background(), []uint{11, 21, 999})
	if err != nil {
		t.Fatalf("CoursesByID() error = %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("courses = %d, want 2", len(courses))
	}
	prices := Prices(courses)
	if prices[11] != 5 || prices[21] != 7 {
		t.Errorf("prices = %v", prices)
	}

	empty, err := svc.CoursesByID(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("CoursesByID(nil) = %v, %v", empty, err)
	}
	if store.courseListCalls != 1 {
		t.Errorf("store queried %d times, want 1", store.courseListCalls)
	}
}

func TestCatalogLookupErrors(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(store, nil)

	if _, err := svc.University(context.Background(), 1); !errors.Is(err, ErrUniversityNotFound) {
		t.Errorf("University() error = %v", err)
	}
	if _, err := svc.Course(context.Background(), 1); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Course() error = %v", err)
	}
}

func TestCreateUniversitySetsSlug(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(store, nil)

	name, fee := "Philadelphia University", 2.5
	u, err := svc.CreateUniversity(context.Background(), UniversityInput{Name: &name, DeliveryFee: &fee})
	if err != nil {
		t.Fatalf("CreateUniversity() error = %v", err)
	}
	if u.Slug != "philadelphia-university-100" || !u.IsActive || u.DeliveryFee != 2.5 {
		t.Errorf("university = %+v", u)
	}
	if store.universities[u.ID].Slug != u.Slug {
		t.Error("slug not persisted")
	}
}

func TestCreateCourseRequiresUniversity(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := NewCatalogService(store, nil)

	name, price := "Data Structures", 4.0
	if _, err := svc.CreateCourse(context.Background(), CourseInput{Name: &name, Price: &price}); !errors.Is(err, ErrUniversityNotFound) {
		t.Errorf("missing university error = %v", err)
	}
	missing := uint(77)
	if _, err := svc.CreateCourse(context.Background(), CourseInput{UniversityID: &missing, Name: &name}); !errors.Is(err, ErrUniversityNotFound) {
		t.Errorf("unknown university error = %v", err)
	}

	uid := uint(10)
	course, err := svc.CreateCourse(context.Background(), CourseInput{UniversityID: &uid, Name: &name, Price: &price})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	if course.Slug != "data-structures" || course.UniversityID != 10 || !course.IsActive {
		t.Errorf("course = %+v", course)
	}
}

func TestUpdateCourseKeepsUnsetFields(t *testing.T) {
	store := newMemStore()
	seedCatalog(store)
	svc := NewCatalogService(store, nil)

	price := 9.0
	course, err := svc.UpdateCourse(context.Background(), 11, CourseInput{Price: &price})
	if err != nil {
		t.Fatalf("UpdateCourse() error = %v", err)
	}
	if course.Price != 9 || course.Name != "برمجة 1" || course.UniversityID != 1 {
		t.Errorf("course = %+v", course)
	}
}

func TestWarmCacheWithoutRedis(t *testing.T) {
	svc := NewCatalogService(newMemStore(), nil)
	n, err := svc.WarmCache(context.Background())
	if err != nil || n != 0 {
		t.Errorf("WarmCache() = %d, %v", n, err)
	}
}

func TestIsPDFAvailable(t *testing.T) {
	tests := []struct {
		name       string
		university string
		course     model.Course
		want       bool
	}{
		{"uploaded", "any", model.Course{Name: "x", PDFKey: "courses/1.pdf"}, true},
		{"legacy table", "جامعة جدارا", model.Course{Name: "برمجة 1"}, true},
		{"legacy case-insensitive", "جامعة عجلون الوطنية", model.Course{Name: "c++"}, true},
		{"not listed", "جامعة جرش", model.Course{Name: "C++"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPDFAvailable(tt.university, tt.course); got != tt.want {
				t.Errorf("IsPDFAvailable() = %v, want %v", got, tt.want)
			}
		})
	}
}
