package services

import "errors"

// Checkout errors. Validation errors are returned before any write.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMissingField      = errors.New("full name and phone number are required")
	ErrCourseUnavailable = errors.New("course is not available for the cart university")
	ErrSubmissionFailed  = errors.New("order submission failed")
)

// Catalog errors
var (
	ErrUniversityNotFound = errors.New("university not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrPDFNotAvailable    = errors.New("no digital copy for course")
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// Admin errors
var (
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ErrInvalidPDF wraps a rejected course packet upload
var ErrInvalidPDF = errors.New("invalid pdf")
