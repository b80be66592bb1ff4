package middleware

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dosya-jo/dosya-api/model"
	"github.com/gofiber/fiber/v2"
)

type chanAuditStore chan model.AdminAuditLog

func (s chanAuditStore) CreateAuditLog(ctx context.Context, entry *model.AdminAuditLog) error {
	s <- *entry
	return nil
}

func newAuditTestApp(store AuditStore, status int) *fiber.App {
	app := fiber.New()
	withAdmin := func(c *fiber.Ctx) error {
		c.Locals("admin_id", uint(9))
		return c.Next()
	}
	handler := func(c *fiber.Ctx) error {
		if status >= fiber.StatusBadRequest {
			return c.Status(status).JSON(fiber.Map{"success": false})
		}
		return c.Status(status).JSON(fiber.Map{"success": true, "data": fiber.Map{"id": 55}})
	}
	app.Post("/courses", withAdmin, AdminAuditLog(store, "course_create", "courses"), handler)
	app.Put("/courses/:id", withAdmin, AdminAuditLog(store, "course_update", "courses"), handler)
	return app
}

func waitAudit(t *testing.T, store chanAuditStore) model.AdminAuditLog {
	t.Helper()
	select {
	case entry := <-store:
		return entry
	case <-time.After(2 * time.Second):
		t.Fatal("no audit entry recorded")
	}
	return model.AdminAuditLog{}
}

func TestAdminAuditLogRecordsUpdate(t *testing.T) {
	store := make(chanAuditStore, 1)
	app := newAuditTestApp(store, fiber.StatusOK)

	req := httptest.NewRequest("PUT", "/courses/12", strings.NewReader(`{"price":4.5}`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	entry := waitAudit(t, store)
	if entry.AdminID != 9 || entry.Action != "course_update" || entry.ResourceID != 12 {
		t.Errorf("entry = %+v", entry)
	}
	if string(entry.NewValue) != `{"price":4.5}` {
		t.Errorf("NewValue = %s", entry.NewValue)
	}
	if entry.Description != "PUT /courses/12" {
		t.Errorf("Description = %q", entry.Description)
	}
}

func TestAdminAuditLogTakesCreatedID(t *testing.T) {
	store := make(chanAuditStore, 1)
	app := newAuditTestApp(store, fiber.StatusCreated)

	req := httptest.NewRequest("POST", "/courses", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if entry := waitAudit(t, store); entry.ResourceID != 55 {
		t.Errorf("ResourceID = %d, want 55", entry.ResourceID)
	}
}

func TestAdminAuditLogSkipsFailures(t *testing.T) {
	store := make(chanAuditStore, 1)
	app := newAuditTestApp(store, fiber.StatusUnprocessableEntity)

	if _, err := app.Test(httptest.NewRequest("PUT", "/courses/12", nil)); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	select {
	case entry := <-store:
		t.Errorf("unexpected audit entry %+v", entry)
	case <-time.After(100 * time.Millisecond):
	}
}
