package course

import (
	"errors"
	"strconv"

	"github.com/dosya-jo/dosya-api/handlers/university"
	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/services"
	"github.com/dosya-jo/dosya-api/utils/response"
	"github.com/dosya-jo/dosya-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/jinzhu/copier"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	catalog   *services.CatalogService
	pdfs      *services.CoursePDFService
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(catalog *services.CatalogService, pdfs *services.CoursePDFService) *CourseHandler {
	return &CourseHandler{
		catalog:   catalog,
		pdfs:      pdfs,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	UniversityID uint    `json:"university_id" validate:"required"`
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Description  string  `json:"description" validate:"max=2000"`
	Price        float64 `json:"price" validate:"gte=0"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	UniversityID *uint    `json:"university_id"`
	Name         *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description" validate:"omitempty,max=2000"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"is_active"`
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := courseID(c)
	if err != nil {
		return response.BadRequest(c, "")
	}

	course, err := h.catalog.Course(c.UserContext(), id)
	if err != nil {
		return h.courseError(c, err)
	}
	if !course.IsActive {
		return response.NotFound(c, response.MsgCourseUnavailable)
	}

	out, err := h.toResponse(c, course)
	if err != nil {
		return h.courseError(c, err)
	}
	return response.Success(c, out)
}

// DownloadPDF handles GET /api/v1/courses/:id/pdf
func (h *CourseHandler) DownloadPDF(c *fiber.Ctx) error {
	id, err := courseID(c)
	if err != nil {
		return response.BadRequest(c, "")
	}

	pdf, err := h.pdfs.DownloadURL(c.UserContext(), id)
	if err != nil {
		return h.courseError(c, err)
	}
	return response.Success(c, pdf)
}

// CreateCourse handles POST /api/v1/admin/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	name := validation.SanitizeString(req.Name)
	description := validation.SanitizeString(req.Description)
	course, err := h.catalog.CreateCourse(c.UserContext(), services.CourseInput{
		UniversityID: &req.UniversityID,
		Name:         &name,
		Description:  &description,
		Price:        &req.Price,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return h.courseError(c, err)
	}

	out, err := h.toResponse(c, course)
	if err != nil {
		return h.courseError(c, err)
	}
	return response.Created(c, "", out)
}

// UpdateCourse handles PUT /api/v1/admin/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := courseID(c)
	if err != nil {
		return response.BadRequest(c, "")
	}

	var req UpdateCourseRequest
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

	course, err := h.catalog.UpdateCourse(c.UserContext(), id, services.CourseInput{
		UniversityID: req.UniversityID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return h.courseError(c, err)
	}

	out, err := h.toResponse(c, course)
	if err != nil {
		return h.courseError(c, err)
	}
	return response.Success(c, out)
}

// UploadPDF handles POST /api/v1/admin/courses/:id/pdf
func (h *CourseHandler) UploadPDF(c *fiber.Ctx) error {
	id, err := courseID(c)
	if err != nil {
		return response.BadRequest(c, "")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, response.MsgInvalidPDF)
	}

	course, result, err := h.pdfs.Upload(c.UserContext(), id, file)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPDF) && result != nil {
			return response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, response.MsgInvalidPDF, "INVALID_PDF", result.Error)
		}
		return h.courseError(c, err)
	}

	out, err := h.toResponse(c, course)
	if err != nil {
		return h.courseError(c, err)
	}
	return response.SuccessWithMessage(c, response.MsgCreated, fiber.Map{
		"course":     out,
		"page_count": result.PageCount,
		"file_size":  result.FileSize,
	})
}

func (h *CourseHandler) toResponse(c *fiber.Ctx, course *model.Course) (*university.CourseResponse, error) {
	var out university.CourseResponse
	if err := copier.Copy(&out, course); err != nil {
		return nil, err
	}

	u, err := h.catalog.University(c.UserContext(), course.UniversityID)
	if err != nil {
		return nil, err
	}
	out.PDFAvailable = services.IsPDFAvailable(u.Name, *course)
	return &out, nil
}

func (h *CourseHandler) courseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCourseNotFound), errors.Is(err, services.ErrUniversityNotFound):
		return response.NotFound(c, "")
	case errors.Is(err, services.ErrPDFNotAvailable):
		return response.NotFound(c, response.MsgPDFNotAvailable)
	case errors.Is(err, services.ErrStorageUnavailable):
		return response.ServiceUnavailable(c, "")
	}
	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, "")
}

func courseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid course id")
	}
	return uint(id), nil
}
