package admin

import (
	"errors"
	"strconv"

	"github.com/dosya-jo/dosya-api/database"
	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/utils/middleware"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/dosya-jo/dosya-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// OrderHandler serves the admin order list and status changes
type OrderHandler struct {
	orders    *services.OrderAdminService
	validator *validation.Validator
}

// NewOrderHandler creates a new admin order handler
func NewOrderHandler(orders *services.OrderAdminService) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		validator: validation.NewValidator(),
	}
}

// UpdateStatusRequest moves an order row to another status
type UpdateStatusRequest struct {
	StatusID uint `json:"status_id" validate:"required"`
}

// ListOrders handles GET /api/v1/admin/orders
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(response.DefaultPageSize)))
	page, limit = response.NormalizePage(page, limit)

	var filter database.OrderFilter
	if id, ok := queryID(c, "statusId"); ok {
		filter.StatusID = &id
	}
	if id, ok := queryID(c, "universityId"); ok {
		filter.UniversityID = &id
	}

	groups, total, err := h.orders.ListGroupedOrders(c.UserContext(), filter, page, limit)
	if err != nil {
		log.Errorf("list orders: %v", err)
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, groups, response.CalculatePagination(page, limit, total))
}

// GetOrder handles GET /api/v1/admin/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return response.BadRequest(c, "")
	}

	group, err := h.orders.GroupOf(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return response.NotFound(c, response.MsgOrderNotFound)
		}
		log.Errorf("get order %d: %v", id, err)
		return response.InternalServerError(c, "")
	}
	return response.Success(c, group)
}

// UpdateStatus handles PUT /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return response.BadRequest(c, "")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	adminID, _ := middleware.GetAdminID(c)
	order, err := h.orders.UpdateStatus(c.UserContext(), uint(id), req.StatusID, services.AuditMeta{
		AdminID:   adminID,
		IPAddress: c.IP(),
		UserAgent: string(c.Request().Header.UserAgent()),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownStatus):
			return response.ValidationError(c, map[string]string{"status_id": response.MsgUnknownStatus})
		case errors.Is(err, services.ErrOrderNotFound):
			return response.NotFound(c, response.MsgOrderNotFound)
		}
		log.Errorf("update status of order %d: %v", id, err)
		return response.InternalServerError(c, response.MsgStatusUpdateFailed)
	}

	return response.SuccessWithMessage(c, response.MsgStatusUpdated, fiber.Map{
		"order_id":  order.ID,
		"status_id": order.StatusID,
	})
}

// ListStatuses handles GET /api/v1/admin/order-statuses
func (h *OrderHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.orders.Statuses(c.UserContext())
	if err != nil {
		log.Errorf("list order statuses: %v", err)
		return response.InternalServerError(c, "")
	}
	return response.Success(c, statuses)
}

// ListDeliveryMethods handles GET /api/v1/admin/delivery-methods
func (h *OrderHandler) ListDeliveryMethods(c *fiber.Ctx) error {
	methods, err := h.orders.DeliveryMethods(c.UserContext())
	if err != nil {
		log.Errorf("list delivery methods: %v", err)
		return response.InternalServerError(c, "")
	}
	return response.Success(c, methods)
}

func queryID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
