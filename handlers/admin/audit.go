package admin

import (
	"errors"
	"strconv"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// ListAuditLogs retrieves admin audit logs with pagination
// GET /admin/audit-logs
func ListAuditLogs(c *fiber.Ctx, store database.Storage) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	page, limit = response.NormalizePage(page, limit)

	filter := database.AuditLogFilter{
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
	}
	if adminID, err := strconv.ParseUint(c.Query("admin_id"), 10, 32); err == nil {
		filter.AdminID = uint(adminID)
	}

	logs, total, err := store.ListAuditLogs(c.UserContext(), filter, page, limit)
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Paginated(c, logs, response.CalculatePagination(page, limit, total))
}

// GetAuditLog retrieves a specific audit log entry
// GET /admin/audit-logs/:id
func GetAuditLog(c *fiber.Ctx, store database.Storage) error {
	logID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "")
	}

	entry, err := store.GetAuditLog(c.UserContext(), uint(logID))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "")
		}
		return response.InternalServerError(c, "")
	}

	return response.Success(c, entry)
}
