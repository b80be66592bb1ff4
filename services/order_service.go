package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/services/cart"
	"github.com/dosya-jo/dosya-api/utils/validation"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/errgroup"
)

// CheckoutWriter is the storage used by a checkout
type CheckoutWriter interface {
	CreateStudent(ctx context.Context, student *model.Student) error
	CreateOrder(ctx context.Context, order *model.Order) error
}

// OrderService turns a cart into Student and Order rows and announces it
type OrderService struct {
	writer   CheckoutWriter
	catalog  *CatalogService
	notifier Notifier
	now      func() time.Time
	suffix   func() int
}

// NewOrderService creates an order service; notifier may be nil
func NewOrderService(writer CheckoutWriter, catalog *CatalogService, notifier Notifier) *OrderService {
	return &OrderService{
		writer:   writer,
		catalog:  catalog,
		notifier: notifier,
		now:      time.Now,
		suffix:   func() int { return rand.IntN(1000) },
	}
}

// SubmitInput is one checkout
type SubmitInput struct {
	FullName    string
	PhoneNumber string
	Notes       string
	Cart        *cart.Cart
}

// SubmitResult identifies the created rows
type SubmitResult struct {
	ReferenceOrderID uint        `json:"reference_order_id"`
	GroupTag         string      `json:"group_tag"`
	OrderIDs         []uint      `json:"order_ids"`
	Totals           cart.Totals `json:"totals"`
}

// GroupTag builds the correlation tag shared by the order rows of one checkout
func GroupTag(now time.Time, suffix int) string {
	return fmt.Sprintf("#G%d%03d", now.UnixMilli(), suffix%1000)
}

// TagNotes appends the group tag to free-text notes
func TagNotes(notes, tag string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return tag
	}
	return notes + " " + tag
}

// Submit validates the checkout, then inserts one student and one order per
// cart line. Validation failures return before any write. A failed line
// insert does not roll back lines already written.
func (s *OrderService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if in.Cart == nil || in.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	fullName := validation.SanitizeString(in.FullName)
	phone := validation.NormalizePhone(in.PhoneNumber)
	if fullName == "" || phone == "" {
		return nil, ErrMissingField
	}

	universityID, _ := in.Cart.UniversityID()
	university, courses, err := s.checkCart(ctx, universityID, in.Cart)
	if err != nil {
		return nil, err
	}

	lines := in.Cart.Lines()
	totals := in.Cart.Totals(Prices(courses), university.DeliveryFee)
	tag := GroupTag(s.now(), s.suffix())
	notes := TagNotes(validation.SanitizeString(in.Notes), tag)

	student := &model.Student{FullName: fullName, PhoneNumber: phone}
	if err := s.writer.CreateStudent(ctx, student); err != nil {
		log.Errorf("checkout %s: failed to create student: %v", tag, err)
		return nil, fmt.Errorf("%w: create student: %v", ErrSubmissionFailed, err)
	}

	orders := make([]model.Order, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	for i, line := range lines {
		orders[i] = model.Order{
			Quantity:         line.Quantity,
			StudentID:        student.ID,
			UniversityID:     universityID,
			CourseID:         line.CourseID,
			DeliveryMethodID: model.DefaultDeliveryMethodID,
			StatusID:         model.StatusPendingID,
			Notes:            notes,
			GroupTag:         tag,
		}
		g.Go(func() error {
			return s.writer.CreateOrder(gctx, &orders[i])
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("checkout %s: failed to create orders for student %d: %v", tag, student.ID, err)
		return nil, fmt.Errorf("%w: create orders: %v", ErrSubmissionFailed, err)
	}

	result := &SubmitResult{
		GroupTag: tag,
		OrderIDs: make([]uint, len(orders)),
		Totals:   totals,
	}
	for i, o := range orders {
		result.OrderIDs[i] = o.ID
	}
	// inserts finish in any order; the reference is the first row created
	result.ReferenceOrderID = firstOrderID(result.OrderIDs)

	log.Infof("checkout %s: %d order(s) placed, reference #%d", tag, len(orders), result.ReferenceOrderID)

	s.notify(ctx, buildSummary(result, student, university, lines, courses, in.Notes, s.now()))
	return result, nil
}

// SubmitSingle places an order for one course, the original order form flow
func (s *OrderService) SubmitSingle(ctx context.Context, fullName, phone, notes string, courseID uint, quantity int) (*SubmitResult, error) {
	course, err := s.catalog.Course(ctx, courseID)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return nil, ErrCourseUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	c := cart.New("")
	if err := c.AddLine(*course, quantity); err != nil {
		return nil, err
	}

	return s.Submit(ctx, SubmitInput{FullName: fullName, PhoneNumber: phone, Notes: notes, Cart: c})
}

// checkCart reloads the cart's university and courses and rejects lines that
// are no longer sellable
func (s *OrderService) checkCart(ctx context.Context, universityID uint, c *cart.Cart) (*model.University, map[uint]model.Course, error) {
	university, err := s.catalog.University(ctx, universityID)
	if err != nil {
		if errors.Is(err, ErrUniversityNotFound) {
			return nil, nil, ErrCourseUnavailable
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	if !university.IsActive {
		return nil, nil, ErrCourseUnavailable
	}

	courses, err := s.catalog.CoursesByID(ctx, c.CourseIDs())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	for _, id := range c.CourseIDs() {
		course, ok := courses[id]
		if !ok || !course.IsActive || course.UniversityID != universityID {
			return nil, nil, fmt.Errorf("%w: course %d", ErrCourseUnavailable, id)
		}
	}
	return university, courses, nil
}

// notify never fails the checkout
func (s *OrderService) notify(ctx context.Context, summary model.OrderSummary) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOrderPlaced(context.WithoutCancel(ctx), summary); err != nil {
		log.Warnf("checkout %s: notification failed: %v", summary.GroupTag, err)
	}
}

func buildSummary(result *SubmitResult, student *model.Student, university *model.University, lines []cart.Line, courses map[uint]model.Course, notes string, placedAt time.Time) model.OrderSummary {
	summary := model.OrderSummary{
		ReferenceOrderID: result.ReferenceOrderID,
		GroupTag:         result.GroupTag,
		FullName:         student.FullName,
		PhoneNumber:      student.PhoneNumber,
		UniversityName:   university.Name,
		TotalQuantity:    result.Totals.Quantity,
		Subtotal:         result.Totals.Subtotal,
		DeliveryFee:      result.Totals.DeliveryFee,
		Total:            result.Totals.Total,
		Notes:            strings.TrimSpace(notes),
		PlacedAt:         placedAt,
	}
	for _, line := range lines {
		course := courses[line.CourseID]
		summary.Courses = append(summary.Courses, model.OrderedCourse{
			CourseName: course.Name,
			Quantity:   line.Quantity,
			UnitPrice:  course.Price,
		})
	}
	return summary
}
