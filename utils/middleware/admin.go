package middleware

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/dosya-jo/dosya-api/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
)

// AuditStore persists admin audit entries
type AuditStore interface {
	CreateAuditLog(ctx context.Context, entry *model.AdminAuditLog) error
}

// AdminAuditLog records successful admin mutations of a resource
func AdminAuditLog(store AuditStore, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, ok := GetAdminID(c)
		if !ok {
			return c.Next()
		}

		// fiber reuses the context after the handler returns, copy what the goroutine needs
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		var newValue datatypes.JSON
		if body := c.Body(); len(body) > 0 && json.Valid(body) {
			newValue = datatypes.JSON(append([]byte(nil), body...))
		}

		entry := model.AdminAuditLog{
			AdminID:     adminID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			NewValue:    newValue,
			IPAddress:   c.IP(),
			UserAgent:   string(c.Request().Header.UserAgent()),
			Description: c.Method() + " " + c.Path(),
		}

		err := c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}

		if entry.ResourceID == 0 {
			// created resources report their id in the response envelope
			entry.ResourceID = createdID(c.Response().Body())
		}

		go func() {
			if err := store.CreateAuditLog(context.Background(), &entry); err != nil {
				log.Warnf("audit: failed to record %s on %s: %v", action, resource, err)
			}
		}()

		return nil
	}
}

func createdID(body []byte) uint {
	var envelope struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0
	}
	return envelope.Data.ID
}
