package university

import (
	"errors"
	"strconv"
	"time"

	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/dosya-jo/dosya-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/jinzhu/copier"
)

// UniversityHandler handles university-related requests
type UniversityHandler struct {
	catalog   *services.CatalogService
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(catalog *services.CatalogService) *UniversityHandler {
	return &UniversityHandler{
		catalog:   catalog,
		validator: validation.NewValidator(),
	}
}

// UniversityResponse is the public view of a university
type UniversityResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	DeliveryFee float64   `json:"delivery_fee"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseResponse is the public view of a course
type CourseResponse struct {
	ID           uint    `json:"id"`
	UniversityID uint    `json:"university_id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	IsActive     bool    `json:"is_active"`
	PDFAvailable bool    `json:"pdf_available"`
}

// CreateUniversityRequest represents the request body for creating a university
type CreateUniversityRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	DeliveryFee *float64 `json:"delivery_fee" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateUniversityRequest represents the request body for updating a university
type UpdateUniversityRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=255"`
	DeliveryFee *float64 `json:"delivery_fee" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

// ListUniversities handles GET /api/v1/universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	universities, err := h.catalog.ActiveUniversities(c.UserContext())
	if err != nil {
		log.Errorf("list universities: %v", err)
		return response.InternalServerError(c, "")
	}

	out := make([]UniversityResponse, 0, len(universities))
	if err := copier.Copy(&out, &universities); err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, out)
}

// GetUniversity handles GET /api/v1/universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "")
	}

	university, err := h.catalog.University(c.UserContext(), id)
	if err != nil {
		return h.catalogError(c, err)
	}
	if !university.IsActive {
		return response.NotFound(c, "")
	}

	var out UniversityResponse
	if err := copier.Copy(&out, university); err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, out)
}

// ListCourses handles GET /api/v1/universities/:id/courses
func (h *UniversityHandler) ListCourses(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "")
	}

	university, err := h.catalog.University(c.UserContext(), id)
	if err != nil {
		return h.catalogError(c, err)
	}
	if !university.IsActive {
		return response.NotFound(c, "")
	}

	courses, err := h.catalog.ActiveCourses(c.UserContext(), id)
	if err != nil {
		log.Errorf("list courses of university %d: %v", id, err)
		return response.InternalServerError(c, "")
	}

	out := make([]CourseResponse, len(courses))
	for i, course := range courses {
		if err := copier.Copy(&out[i], &course); err != nil {
			return response.InternalServerError(c, "")
		}
		out[i].PDFAvailable = services.IsPDFAvailable(university.Name, course)
	}
	return response.Success(c, out)
}

// OrderForm handles GET /api/v1/order-form
func (h *UniversityHandler) OrderForm(c *fiber.Ctx) error {
	prefill, err := h.catalog.Prefill(c.UserContext(), c.Query("courseId"), c.Query("universityId"))
	if err != nil {
		log.Errorf("order form prefill: %v", err)
		return response.InternalServerError(c, "")
	}
	return response.Success(c, prefill)
}

// ListAllUniversities handles GET /api/v1/admin/universities
func (h *UniversityHandler) ListAllUniversities(c *fiber.Ctx) error {
	universities, err := h.catalog.AllUniversities(c.UserContext())
	if err != nil {
		log.Errorf("list all universities: %v", err)
		return response.InternalServerError(c, "")
	}

	out := make([]UniversityResponse, 0, len(universities))
	if err := copier.Copy(&out, &universities); err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, out)
}

// CreateUniversity handles POST /api/v1/admin/universities
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	name := validation.SanitizeString(req.Name)
	university, err := h.catalog.CreateUniversity(c.UserContext(), services.UniversityInput{
		Name:        &name,
		DeliveryFee: req.DeliveryFee,
		IsActive:    req.IsActive,
	})
	if err != nil {
		log.Errorf("create university: %v", err)
		return response.InternalServerError(c, "")
	}

	var out UniversityResponse
	if err := copier.Copy(&out, university); err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Created(c, "", out)
}

// UpdateUniversity handles PUT /api/v1/admin/universities/:id
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "")
	}

	var req UpdateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}
	if req.Name != nil {
		name := validation.SanitizeString(*req.Name)
		req.Name = &name
	}

	university, err := h.catalog.UpdateUniversity(c.UserContext(), id, services.UniversityInput{
		Name:        req.Name,
		DeliveryFee: req.DeliveryFee,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return h.catalogError(c, err)
	}

	var out UniversityResponse
	if err := copier.Copy(&out, university); err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, out)
}

func (h *UniversityHandler) catalogError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUniversityNotFound) {
		return response.NotFound(c, "")
	}
	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, "")
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
