package handlers

import (
	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth reports whether the database answers
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return response.ServiceUnavailable(c, "")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
