package cart

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/services/cart"
	"github.com/gofiber/fiber/v2"
)

// catalogFake serves a fixed catalog and records checkout writes
type catalogFake struct {
	mu           sync.Mutex
	universities map[uint]model.University
	courses      map[uint]model.Course
	students     []model.Student
	orders       []model.Order
}

func newCatalogFake() *catalogFake {
	return &catalogFake{
		universities: map[uint]model.University{
			1:  {ID: 1, Name: "جامعة جدارا", DeliveryFee: 3, IsActive: true},
			10: {ID: 10, Name: "جامعة جرش", DeliveryFee: 5, IsActive: true},
		},
		courses: map[uint]model.Course{
			11: {ID: 11, UniversityID: 1, Name: "برمجة 1", Price: 5, IsActive: true},
			12: {ID: 12, UniversityID: 1, Name: "برمجة 2", Price: 6.5, IsActive: true},
			21: {ID: 21, UniversityID: 10, Name: "C++", Price: 7, IsActive: true},
		},
	}
}

func (f *catalogFake) ListUniversities(ctx context.Context, activeOnly bool) ([]model.University, error) {
	return nil, nil
}

func (f *catalogFake) GetUniversity(ctx context.Context, id uint) (*model.University, error) {
	u, ok := f.universities[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &u, nil
}

func (f *catalogFake) CreateUniversity(ctx context.Context, university *model.University) error {
	return nil
}

func (f *catalogFake) UpdateUniversity(ctx context.Context, university *model.University) error {
	return nil
}

func (f *catalogFake) ListCourses(ctx context.Context, filter database.CourseFilter) ([]model.Course, error) {
	var out []model.Course
	for _, id := range filter.IDs {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *catalogFake) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &c, nil
}

func (f *catalogFake) CreateCourse(ctx context.Context, course *model.Course) error { return nil }
func (f *catalogFake) UpdateCourse(ctx context.Context, course *model.Course) error { return nil }

func (f *catalogFake) CreateStudent(ctx context.Context, student *model.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	student.ID = uint(len(f.students) + 1)
	f.students = append(f.students, *student)
	return nil
}

func (f *catalogFake) CreateOrder(ctx context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = uint(len(f.orders) + 100)
	f.orders = append(f.orders, *order)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

type cartTest struct {
	t     *testing.T
	app   *fiber.App
	store *catalogFake
	carts *cart.MemoryStore
}

func newCartTest(t *testing.T) *cartTest {
	store := newCatalogFake()
	catalog := services.NewCatalogService(store, nil)
	orders := services.NewOrderService(store, catalog, nil)
	carts := cart.NewMemoryStore(0)
	h := NewCartHandler(carts, catalog, orders)

	app := fiber.New()
	app.Post("/carts", h.CreateCart)
	app.Get("/carts/:id", h.GetCart)
	app.Post("/carts/:id/lines", h.AddLine)
	app.Put("/carts/:id/lines/:course_id", h.UpdateLine)
	app.Delete("/carts/:id/lines/:course_id", h.RemoveLine)
	app.Post("/carts/:id/checkout", h.Checkout)

	return &cartTest{t: t, app: app, store: store, carts: carts}
}

func (ct *cartTest) do(method, path, body string) (int, envelope) {
	ct.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ct.app.Test(req)
	if err != nil {
		ct.t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		ct.t.Fatalf("%s %s: decode %s: %v", method, path, raw, err)
	}
	return resp.StatusCode, env
}

func (ct *cartTest) newCart(body string) CartResponse {
	ct.t.Helper()
	status, env := ct.do("POST", "/carts", body)
	if status != fiber.StatusCreated {
		ct.t.Fatalf("create cart status = %d", status)
	}
	var view CartResponse
	if err := json.Unmarshal(env.Data, &view); err != nil {
		ct.t.Fatalf("decode cart: %v", err)
	}
	return view
}

func TestCartFlow(t *testing.T) {
	ct := newCartTest(t)

	view := ct.newCart(`{"course_id":11,"quantity":2}`)
	if view.State != "locked" || view.UniversityID == nil || *view.UniversityID != 1 {
		t.Fatalf("cart = %+v", view)
	}

	status, env := ct.do("POST", "/carts/"+view.ID+"/lines", `{"course_id":12}`)
	if status != fiber.StatusOK {
		t.Fatalf("add line status = %d", status)
	}
	var updated CartResponse
	json.Unmarshal(env.Data, &updated)
	if len(updated.Lines) != 2 || updated.Totals.Subtotal != 16.5 || updated.Totals.Total != 19.5 {
		t.Errorf("cart after add = %+v", updated)
	}

	status, env = ct.do("POST", "/carts/"+view.ID+"/lines", `{"course_id":21}`)
	if status != fiber.StatusConflict || env.Error.Code != "CONFLICT" {
		t.Errorf("mixed university status = %d", status)
	}

	status, env = ct.do("PUT", "/carts/"+view.ID+"/lines/11", `{"quantity":0}`)
	if status != fiber.StatusUnprocessableEntity || env.Error.Fields["quantity"] == "" {
		t.Errorf("zero quantity status = %d", status)
	}

	status, _ = ct.do("PUT", "/carts/"+view.ID+"/lines/11", `{"quantity":3}`)
	if status != fiber.StatusOK {
		t.Errorf("update status = %d", status)
	}

	status, env = ct.do("POST", "/carts/"+view.ID+"/checkout", `{"full_name":"Ali","phone_number":"079 123 4567","notes":"evening"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("checkout status = %d, error = %+v", status, env.Error)
	}
	var result services.SubmitResult
	json.Unmarshal(env.Data, &result)
	if len(result.OrderIDs) != 2 || result.Totals.Quantity != 4 || result.Totals.Total != 24.5 {
		t.Errorf("result = %+v", result)
	}
	if len(ct.store.students) != 1 || len(ct.store.orders) != 2 {
		t.Errorf("writes = %d students, %d orders", len(ct.store.students), len(ct.store.orders))
	}

	if status, _ := ct.do("GET", "/carts/"+view.ID, ""); status != fiber.StatusNotFound {
		t.Errorf("cart after checkout status = %d, want 404", status)
	}
}

func TestQuantityLimit(t *testing.T) {
	ct := newCartTest(t)
	view := ct.newCart(`{"course_id":11,"quantity":99}`)

	status, env := ct.do("POST", "/carts/"+view.ID+"/lines", `{"course_id":11,"quantity":1}`)
	if status != fiber.StatusUnprocessableEntity || env.Error.Fields["quantity"] == "" {
		t.Errorf("merge past limit status = %d", status)
	}
	status, _ = ct.do("POST", "/carts/"+view.ID+"/lines", `{"course_id":12,"quantity":9223372036854775807}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Errorf("huge quantity status = %d", status)
	}
	status, _ = ct.do("PUT", "/carts/"+view.ID+"/lines/11", `{"quantity":100}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Errorf("update past limit status = %d", status)
	}

	status, env = ct.do("GET", "/carts/"+view.ID, "")
	if status != fiber.StatusOK {
		t.Fatalf("cart after rejected adds status = %d", status)
	}
	var current CartResponse
	json.Unmarshal(env.Data, &current)
	if len(current.Lines) != 1 || current.Lines[0].Quantity != 99 {
		t.Errorf("cart = %+v", current)
	}
}

func TestRemoveLastLineReleasesLock(t *testing.T) {
	ct := newCartTest(t)
	view := ct.newCart(`{"course_id":11}`)

	status, env := ct.do("DELETE", "/carts/"+view.ID+"/lines/11", "")
	if status != fiber.StatusOK {
		t.Fatalf("remove status = %d", status)
	}
	var updated CartResponse
	json.Unmarshal(env.Data, &updated)
	if updated.State != "empty" || updated.UniversityID != nil || updated.Totals.Total != 0 {
		t.Errorf("cart = %+v", updated)
	}

	if status, _ := ct.do("POST", "/carts/"+view.ID+"/lines", `{"course_id":21}`); status != fiber.StatusOK {
		t.Errorf("add after release status = %d", status)
	}
}

func TestCheckoutValidation(t *testing.T) {
	ct := newCartTest(t)

	empty := ct.newCart("")
	status, env := ct.do("POST", "/carts/"+empty.ID+"/checkout", `{"full_name":"Ali","phone_number":"0791234567"}`)
	if status != fiber.StatusBadRequest || env.Error.Code != "BAD_REQUEST" {
		t.Errorf("empty cart status = %d", status)
	}

	view := ct.newCart(`{"course_id":21}`)
	status, env = ct.do("POST", "/carts/"+view.ID+"/checkout", `{"full_name":"","phone_number":"12345"}`)
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("invalid fields status = %d", status)
	}
	if env.Error.Fields["full_name"] == "" || env.Error.Fields["phone_number"] == "" {
		t.Errorf("fields = %v", env.Error.Fields)
	}
	if len(ct.store.students) != 0 || len(ct.store.orders) != 0 {
		t.Error("validation failure wrote rows")
	}

	if status, _ := ct.do("GET", "/carts/"+view.ID, ""); status != fiber.StatusOK {
		t.Errorf("cart kept after failed checkout status = %d", status)
	}
}

func TestUnknownCart(t *testing.T) {
	ct := newCartTest(t)
	if status, _ := ct.do("GET", "/carts/missing", ""); status != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if status, _ := ct.do("POST", "/carts", `{"course_id":999}`); status != fiber.StatusNotFound {
		t.Errorf("unknown course status = %d, want 404", status)
	}
}
