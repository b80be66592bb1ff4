package cart

import (
	"errors"
	"strconv"

	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/services/cart"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/dosya-jo/dosya-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// CartHandler serves the checkout cart
type CartHandler struct {
	carts     cart.Store
	catalog   *services.CatalogService
	orders    *services.OrderService
	validator *validation.Validator
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts cart.Store, catalog *services.CatalogService, orders *services.OrderService) *CartHandler {
	return &CartHandler{
		carts:     carts,
		catalog:   catalog,
		orders:    orders,
		validator: validation.NewValidator(),
	}
}

// AddLineRequest adds a course to the cart
type AddLineRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"max=99"`
}

// UpdateLineRequest replaces the quantity of a line
type UpdateLineRequest struct {
	Quantity int `json:"quantity" validate:"max=99"`
}

// CheckoutRequest carries the student's contact details
type CheckoutRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255"`
	PhoneNumber string `json:"phone_number" validate:"required,jo_phone"`
	Notes       string `json:"notes" validate:"max=1000"`
}

// LineResponse is one priced cart line
type LineResponse struct {
	CourseID   uint    `json:"course_id"`
	CourseName string  `json:"course_name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
}

// CartResponse is the cart as shown before checkout
type CartResponse struct {
	ID           string         `json:"id"`
	State        string         `json:"state"`
	UniversityID *uint          `json:"university_id"`
	Lines        []LineResponse `json:"lines"`
	Totals       cart.Totals    `json:"totals"`
}

// CreateCart handles POST /api/v1/carts. An optional body adds a first line.
func (h *CartHandler) CreateCart(c *fiber.Ctx) error {
	cr := cart.New(uuid.New().String())

	if len(c.Body()) > 0 {
		var req AddLineRequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "")
		}
		if req.CourseID != 0 {
			if err := h.addLine(c, cr, req); err != nil {
				return h.cartError(c, err)
			}
		}
	}

	if err := h.carts.Save(c.UserContext(), cr); err != nil {
		log.Errorf("save cart: %v", err)
		return response.InternalServerError(c, "")
	}
	return h.respond(c, fiber.StatusCreated, cr)
}

// GetCart handles GET /api/v1/carts/:id
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	cr, err := h.carts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.cartError(c, err)
	}
	return h.respond(c, fiber.StatusOK, cr)
}

// AddLine handles POST /api/v1/carts/:id/lines
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	var req AddLineRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	cr, err := h.carts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.cartError(c, err)
	}
	if err := h.addLine(c, cr, req); err != nil {
		return h.cartError(c, err)
	}
	return h.save(c, cr)
}

// UpdateLine handles PUT /api/v1/carts/:id/lines/:course_id
func (h *CartHandler) UpdateLine(c *fiber.Ctx) error {
	courseID, err := strconv.ParseUint(c.Params("course_id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "")
	}

	var req UpdateLineRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	cr, err := h.carts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.cartError(c, err)
	}
	if err := cr.UpdateQuantity(uint(courseID), req.Quantity); err != nil {
		return h.cartError(c, err)
	}
	return h.save(c, cr)
}

// RemoveLine handles DELETE /api/v1/carts/:id/lines/:course_id
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	courseID, err := strconv.ParseUint(c.Params("course_id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "")
	}

	cr, err := h.carts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.cartError(c, err)
	}
	if err := cr.RemoveLine(uint(courseID)); err != nil {
		return h.cartError(c, err)
	}
	return h.save(c, cr)
}

// Checkout handles POST /api/v1/carts/:id/checkout
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	cr, err := h.carts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.cartError(c, err)
	}
	if cr.IsEmpty() {
		return response.BadRequest(c, response.MsgEmptyCart)
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	result, err := h.orders.Submit(c.UserContext(), services.SubmitInput{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Notes:       req.Notes,
		Cart:        cr,
	})
	if err != nil {
		return SubmitError(c, err)
	}

	if err := h.carts.Delete(c.UserContext(), cr.ID); err != nil {
		log.Warnf("checkout %s: failed to clear cart %s: %v", result.GroupTag, cr.ID, err)
	}
	return response.Created(c, response.MsgOrderSubmitted, result)
}

// SubmitError maps checkout failures to responses
func SubmitError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return response.BadRequest(c, response.MsgEmptyCart)
	case errors.Is(err, services.ErrMissingField):
		return response.ValidationError(c, map[string]string{
			"full_name":    response.MsgMissingField,
			"phone_number": response.MsgMissingField,
		})
	case errors.Is(err, services.ErrCourseUnavailable):
		return response.Conflict(c, response.MsgCourseUnavailable)
	case errors.Is(err, cart.ErrUniversityMismatch):
		return response.Conflict(c, response.MsgUniversityMismatch)
	case errors.Is(err, cart.ErrQuantityTooLarge):
		return response.ValidationError(c, map[string]string{"quantity": response.MsgQuantityTooLarge})
	}
	log.Errorf("checkout failed: %v", err)
	return response.InternalServerError(c, response.MsgOrderSubmitFailed)
}

func (h *CartHandler) addLine(c *fiber.Ctx, cr *cart.Cart, req AddLineRequest) error {
	course, err := h.catalog.Course(c.UserContext(), req.CourseID)
	if err != nil {
		return err
	}
	if !course.IsActive {
		return services.ErrCourseUnavailable
	}
	return cr.AddLine(*course, req.Quantity)
}

func (h *CartHandler) save(c *fiber.Ctx, cr *cart.Cart) error {
	if err := h.carts.Save(c.UserContext(), cr); err != nil {
		log.Errorf("save cart %s: %v", cr.ID, err)
		return response.InternalServerError(c, "")
	}
	return h.respond(c, fiber.StatusOK, cr)
}

func (h *CartHandler) respond(c *fiber.Ctx, status int, cr *cart.Cart) error {
	view, err := h.view(c, cr)
	if err != nil {
		log.Errorf("price cart %s: %v", cr.ID, err)
		return response.InternalServerError(c, "")
	}
	return c.Status(status).JSON(response.Response{Success: true, Data: view})
}

// view prices the cart with current course prices and the university fee
func (h *CartHandler) view(c *fiber.Ctx, cr *cart.Cart) (*CartResponse, error) {
	out := &CartResponse{ID: cr.ID, State: cr.State().String(), Lines: []LineResponse{}}

	var fee float64
	if universityID, ok := cr.UniversityID(); ok {
		out.UniversityID = &universityID
		university, err := h.catalog.University(c.UserContext(), universityID)
		if err != nil {
			return nil, err
		}
		fee = university.DeliveryFee
	}

	courses, err := h.catalog.CoursesByID(c.UserContext(), cr.CourseIDs())
	if err != nil {
		return nil, err
	}
	prices := services.Prices(courses)

	for _, line := range cr.Lines() {
		price, ok := prices[line.CourseID]
		if !ok {
			price = line.UnitPrice
		}
		out.Lines = append(out.Lines, LineResponse{
			CourseID:   line.CourseID,
			CourseName: line.CourseName,
			UnitPrice:  price,
			Quantity:   line.Quantity,
			LineTotal:  price * float64(line.Quantity),
		})
	}
	out.Totals = cr.Totals(prices, fee)
	return out, nil
}

func (h *CartHandler) cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, cart.ErrCartNotFound), errors.Is(err, cart.ErrCorruptCart):
		return response.NotFound(c, response.MsgCartNotFound)
	case errors.Is(err, cart.ErrUniversityMismatch):
		return response.Conflict(c, response.MsgUniversityMismatch)
	case errors.Is(err, cart.ErrInvalidQuantity):
		return response.ValidationError(c, map[string]string{"quantity": response.MsgInvalidQuantity})
	case errors.Is(err, cart.ErrQuantityTooLarge):
		return response.ValidationError(c, map[string]string{"quantity": response.MsgQuantityTooLarge})
	case errors.Is(err, cart.ErrLineNotFound):
		return response.NotFound(c, "")
	case errors.Is(err, services.ErrCourseNotFound), errors.Is(err, services.ErrCourseUnavailable):
		return response.NotFound(c, response.MsgCourseUnavailable)
	}
	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, "")
}
