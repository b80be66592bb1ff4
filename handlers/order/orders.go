package order

import (
	"errors"
	"strconv"

	carthandler "github.com/dosya-jo/dosya-api/handlers/cart"
	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/dosya-jo/dosya-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// OrderHandler serves the single-course order form and receipts
type OrderHandler struct {
	orders    *services.OrderService
	receipts  *services.ReceiptService
	validator *validation.Validator
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *services.OrderService, receipts *services.ReceiptService) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		receipts:  receipts,
		validator: validation.NewValidator(),
	}
}

// CreateOrderRequest is the order form submission
type CreateOrderRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	PhoneNumber string `json:"phone_number" validate:"required,jo_phone"`
	CourseID    uint   `json:"course_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"max=99"`
	Notes       string `json:"notes" validate:"max=1000"`
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	result, err := h.orders.SubmitSingle(c.UserContext(), req.FullName, req.PhoneNumber, req.Notes, req.CourseID, req.Quantity)
	if err != nil {
		return carthandler.SubmitError(c, err)
	}
	return response.Created(c, response.MsgOrderSubmitted, result)
}

// GetReceipt handles GET /api/v1/orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return response.BadRequest(c, "")
	}

	receipt, err := h.receipts.Receipt(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return response.NotFound(c, response.MsgOrderNotFound)
		}
		log.Errorf("receipt for order %d: %v", id, err)
		return response.InternalServerError(c, "")
	}
	return response.Success(c, receipt)
}
