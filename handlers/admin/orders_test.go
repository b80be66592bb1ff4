package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// orderStoreFake holds order rows already joined for the admin view
type orderStoreFake struct {
	rows  []model.OrderRow
	audit []model.AdminAuditLog
}

func newOrderStoreFake() *orderStoreFake {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	row := func(id uint, tag, course string, qty int, status uint) model.OrderRow {
		return model.OrderRow{
			OrderID: id, Quantity: qty, StudentID: 1, StudentName: "Ali", PhoneNumber: "0791234567",
			UniversityID: 1, UniversityName: "جامعة جدارا", UniversityDeliveryFee: 3,
			CourseName: course, CoursePrice: 5, StatusID: status, OrderDate: at, GroupTag: tag,
		}
	}
	return &orderStoreFake{rows: []model.OrderRow{
		row(3, "#GB", "C++", 1, 2),
		row(2, "#GA", "برمجة 2", 1, 1),
		row(1, "#GA", "برمجة 1", 2, 1),
	}}
}

func (f *orderStoreFake) CreateStudent(ctx context.Context, student *model.Student) error { return nil }
func (f *orderStoreFake) CreateOrder(ctx context.Context, order *model.Order) error       { return nil }

func (f *orderStoreFake) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	for _, r := range f.rows {
		if r.OrderID == id {
			return &model.Order{ID: r.OrderID, StatusID: r.StatusID, GroupTag: r.GroupTag}, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *orderStoreFake) ListOrderRows(ctx context.Context, filter database.OrderFilter) ([]model.OrderRow, error) {
	var out []model.OrderRow
	for _, r := range f.rows {
		if filter.StatusID != nil && r.StatusID != *filter.StatusID {
			continue
		}
		if filter.GroupTag != "" && r.GroupTag != filter.GroupTag {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *orderStoreFake) UpdateOrderStatus(ctx context.Context, orderID, statusID uint) error {
	for i := range f.rows {
		if f.rows[i].OrderID == orderID {
			f.rows[i].StatusID = statusID
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *orderStoreFake) ListOrderStatuses(ctx context.Context) ([]model.OrderStatus, error) {
	return []model.OrderStatus{{ID: 1, Name: "pending"}, {ID: 2, Name: "processing"}, {ID: 3, Name: "fulfilled"}}, nil
}

func (f *orderStoreFake) ListDeliveryMethods(ctx context.Context) ([]model.DeliveryMethod, error) {
	return []model.DeliveryMethod{{ID: 1, Name: "campus"}}, nil
}

func (f *orderStoreFake) CreateAuditLog(ctx context.Context, entry *model.AdminAuditLog) error {
	f.audit = append(f.audit, *entry)
	return nil
}

func newOrdersTestApp(store *orderStoreFake) *fiber.App {
	h := NewOrderHandler(services.NewOrderAdminService(store, store))
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("admin_id", uint(5))
		return c.Next()
	})
	app.Get("/orders", h.ListOrders)
	app.Get("/orders/:id", h.GetOrder)
	app.Put("/orders/:id/status", h.UpdateStatus)
	return app
}

func TestListOrdersGroupsCheckouts(t *testing.T) {
	app := newOrdersTestApp(newOrderStoreFake())

	resp, err := app.Test(httptest.NewRequest("GET", "/orders?page=1&limit=10", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Data       []services.OrderGroup   `json:"data"`
		Pagination response.PaginationMeta `json:"pagination"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Pagination.Total != 2 || len(body.Data) != 2 {
		t.Fatalf("body = %s", raw)
	}
	if body.Data[0].DisplayID != 3 || body.Data[1].DisplayID != 2 || body.Data[1].TotalQuantity != 3 {
		t.Errorf("groups = %+v", body.Data)
	}
}

func TestListOrdersStatusFilter(t *testing.T) {
	app := newOrdersTestApp(newOrderStoreFake())

	resp, err := app.Test(httptest.NewRequest("GET", "/orders?statusId=2", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	var body struct {
		Data []services.OrderGroup `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	json.Unmarshal(raw, &body)
	if len(body.Data) != 1 || body.Data[0].Key != "#GB" {
		t.Errorf("body = %s", raw)
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"ok", "/orders/1/status", `{"status_id":3}`, fiber.StatusOK},
		{"unknown status", "/orders/1/status", `{"status_id":9}`, fiber.StatusUnprocessableEntity},
		{"missing status", "/orders/1/status", `{}`, fiber.StatusUnprocessableEntity},
		{"unknown order", "/orders/77/status", `{"status_id":2}`, fiber.StatusNotFound},
		{"bad id", "/orders/abc/status", `{"status_id":2}`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newOrderStoreFake()
			app := newOrdersTestApp(store)

			req := httptest.NewRequest("PUT", tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			if tt.wantStatus == fiber.StatusOK {
				if store.rows[2].StatusID != 3 || store.rows[1].StatusID != 1 {
					t.Error("only order 1 should change")
				}
				if len(store.audit) != 1 || store.audit[0].AdminID != 5 {
					t.Errorf("audit = %+v", store.audit)
				}
			} else if len(store.audit) != 0 {
				t.Error("failed update was audited")
			}
		})
	}
}

func TestGetOrderNotFound(t *testing.T) {
	app := newOrdersTestApp(newOrderStoreFake())
	resp, err := app.Test(httptest.NewRequest("GET", "/orders/42", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
