package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
)

var errWriteFailed = errors.New("write failed")

// memStore is an in-memory database.Storage subset for service tests
type memStore struct {
	mu sync.Mutex

	universities map[uint]*model.University
	courses      map[uint]*model.Course
	students     []model.Student
	orders       []model.Order
	statuses     []model.OrderStatus
	methods      []model.DeliveryMethod
	admins       map[string]*model.AdminUser
	audit        []model.AdminAuditLog
	notifyLogs   []model.NotificationLog

	failStudent      bool
	failOrderCourse  uint
	orderWrites      int
	courseListCalls  int
	universityWrites int
}

func newMemStore() *memStore {
	s := &memStore{
		universities: map[uint]*model.University{},
		courses:      map[uint]*model.Course{},
		admins:       map[string]*model.AdminUser{},
		statuses: []model.OrderStatus{
			{ID: 1, Name: "pending"},
			{ID: 2, Name: "processing"},
			{ID: 3, Name: "fulfilled"},
			{ID: 4, Name: "rejected"},
		},
		methods: []model.DeliveryMethod{{ID: 1, Name: "campus"}},
	}
	return s
}

func (s *memStore) addUniversity(id uint, name string, fee float64, active bool) {
	s.universities[id] = &model.University{ID: id, Name: name, DeliveryFee: fee, IsActive: active}
}

func (s *memStore) addCourse(id, universityID uint, name string, price float64, active bool) model.Course {
	c := &model.Course{ID: id, UniversityID: universityID, Name: name, Price: price, IsActive: active}
	s.courses[id] = c
	return *c
}

func (s *memStore) ListUniversities(ctx context.Context, activeOnly bool) ([]model.University, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.University
	for _, u := range s.universities {
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetUniversity(ctx context.Context, id uint) (*model.University, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.universities[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) CreateUniversity(ctx context.Context, university *model.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	university.ID = uint(len(s.universities) + 100)
	cp := *university
	s.universities[university.ID] = &cp
	s.universityWrites++
	return nil
}

func (s *memStore) UpdateUniversity(ctx context.Context, university *model.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *university
	s.universities[university.ID] = &cp
	s.universityWrites++
	return nil
}

func (s *memStore) ListCourses(ctx context.Context, filter database.CourseFilter) ([]model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseListCalls++

	ids := map[uint]bool{}
	for _, id := range filter.IDs {
		ids[id] = true
	}
	var out []model.Course
	for _, c := range s.courses {
		if filter.UniversityID != 0 && c.UniversityID != filter.UniversityID {
			continue
		}
		if len(filter.IDs) > 0 && !ids[c.ID] {
			continue
		}
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) CreateCourse(ctx context.Context, course *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	course.ID = uint(len(s.courses) + 100)
	cp := *course
	s.courses[course.ID] = &cp
	return nil
}

func (s *memStore) UpdateCourse(ctx context.Context, course *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *course
	s.courses[course.ID] = &cp
	return nil
}

func (s *memStore) CreateStudent(ctx context.Context, student *model.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStudent {
		return errWriteFailed
	}
	student.ID = uint(len(s.students) + 1)
	s.students = append(s.students, *student)
	return nil
}

func (s *memStore) CreateOrder(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderWrites++
	if s.failOrderCourse != 0 && order.CourseID == s.failOrderCourse {
		return errWriteFailed
	}
	order.ID = uint(len(s.orders) + 1)
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	}
	s.orders = append(s.orders, *order)
	return nil
}

func (s *memStore) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memStore) ListOrderRows(ctx context.Context, filter database.OrderFilter) ([]model.OrderRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := map[uint]bool{}
	for _, id := range filter.OrderIDs {
		ids[id] = true
	}
	var rows []model.OrderRow
	for _, o := range s.orders {
		if filter.StatusID != nil && o.StatusID != *filter.StatusID {
			continue
		}
		if filter.UniversityID != nil && o.UniversityID != *filter.UniversityID {
			continue
		}
		if filter.GroupTag != "" && o.GroupTag != filter.GroupTag {
			continue
		}
		if len(filter.OrderIDs) > 0 && !ids[o.ID] {
			continue
		}
		student := s.students[o.StudentID-1]
		university := s.universities[o.UniversityID]
		course := s.courses[o.CourseID]
		row := model.OrderRow{
			OrderID:               o.ID,
			Quantity:              o.Quantity,
			StudentID:             o.StudentID,
			StudentName:           student.FullName,
			PhoneNumber:           student.PhoneNumber,
			UniversityID:          o.UniversityID,
			UniversityName:        university.Name,
			UniversityDeliveryFee: university.DeliveryFee,
			CourseID:              o.CourseID,
			CourseName:            course.Name,
			CoursePrice:           course.Price,
			DeliveryMethodID:      o.DeliveryMethodID,
			StatusID:              o.StatusID,
			OrderDate:             o.OrderDate,
			Notes:                 o.Notes,
			GroupTag:              o.GroupTag,
		}
		for _, st := range s.statuses {
			if st.ID == o.StatusID {
				row.StatusName = st.Name
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].OrderID < rows[j].OrderID })
	return rows, nil
}

func (s *memStore) UpdateOrderStatus(ctx context.Context, orderID, statusID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].StatusID = statusID
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *memStore) ListOrderStatuses(ctx context.Context) ([]model.OrderStatus, error) {
	return s.statuses, nil
}

func (s *memStore) ListDeliveryMethods(ctx context.Context) ([]model.DeliveryMethod, error) {
	return s.methods, nil
}

func (s *memStore) GetAdminByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	a, ok := s.admins[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) GetAdminByID(ctx context.Context, id uint) (*model.AdminUser, error) {
	for _, a := range s.admins {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *memStore) TouchAdminLogin(ctx context.Context, id uint, at time.Time) error {
	for _, a := range s.admins {
		if a.ID == id {
			a.LastLoginAt = &at
		}
	}
	return nil
}

func (s *memStore) CreateAuditLog(ctx context.Context, entry *model.AdminAuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, *entry)
	return nil
}

func (s *memStore) ListAuditLogs(ctx context.Context, filter database.AuditLogFilter, page, limit int) ([]model.AdminAuditLog, int64, error) {
	return s.audit, int64(len(s.audit)), nil
}

func (s *memStore) GetAuditLog(ctx context.Context, id uint) (*model.AdminAuditLog, error) {
	return nil, database.ErrNotFound
}

func (s *memStore) CreateNotificationLog(ctx context.Context, entry *model.NotificationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyLogs = append(s.notifyLogs, *entry)
	return nil
}

func (s *memStore) PurgeNotificationLogs(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// seedCatalog adds two universities with courses: 1 (fee 3) and 10 (fee override 2)
func seedCatalog(s *memStore) {
	s.addUniversity(1, "جامعة جدارا", 3, true)
	s.addUniversity(10, "جامعة جرش", 5, true)
	s.addUniversity(4, "جامعة مغلقة", 3, false)
	s.addCourse(11, 1, "برمجة 1", 5, true)
	s.addCourse(12, 1, "برمجة 2", 6.5, true)
	s.addCourse(13, 1, "قواعد بيانات", 4, false)
	s.addCourse(21, 10, "C++", 7, true)
}
