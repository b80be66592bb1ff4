package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/dosya-jo/dosya-api/model"
	"github.com/dosya-jo/dosya-api/services/storage"
	"github.com/dosya-jo/dosya-api/utils/pdfvalidation"
	"github.com/gofiber/fiber/v2/log"
)

// CoursePDFURLExpiry bounds how long a download link stays valid
const CoursePDFURLExpiry = 15 * time.Minute

// CoursePDF describes a course packet download
type CoursePDF struct {
	CourseID  uint      `json:"course_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CoursePDFService stores and serves the digital copies of course packets
type CoursePDFService struct {
	catalog *CatalogService
	bucket  storage.ObjectStorage
	now     func() time.Time
}

// NewCoursePDFService creates a course PDF service; bucket may be nil when
// object storage is not configured
func NewCoursePDFService(catalog *CatalogService, bucket storage.ObjectStorage) *CoursePDFService {
	return &CoursePDFService{catalog: catalog, bucket: bucket, now: time.Now}
}

// Upload validates an uploaded file and attaches it to the course
func (s *CoursePDFService) Upload(ctx context.Context, courseID uint, file *multipart.FileHeader) (*model.Course, *pdfvalidation.ValidationResult, error) {
	if s.bucket == nil {
		return nil, nil, ErrStorageUnavailable
	}

	content, result, err := pdfvalidation.ReadPDFFile(file, pdfvalidation.CoursePacketLimits)
	if err != nil {
		return nil, nil, err
	}
	if !result.Valid {
		return nil, result, fmt.Errorf("%w: %s", ErrInvalidPDF, result.Error)
	}

	course, err := s.store(ctx, courseID, content)
	return course, result, err
}

// UploadBytes validates raw PDF content and attaches it to the course
func (s *CoursePDFService) UploadBytes(ctx context.Context, courseID uint, content []byte) (*model.Course, *pdfvalidation.ValidationResult, error) {
	if s.bucket == nil {
		return nil, nil, ErrStorageUnavailable
	}

	result := pdfvalidation.ValidatePDFBytes(content, pdfvalidation.CoursePacketLimits)
	if !result.Valid {
		return nil, result, fmt.Errorf("%w: %s", ErrInvalidPDF, result.Error)
	}

	course, err := s.store(ctx, courseID, content)
	return course, result, err
}

func (s *CoursePDFService) store(ctx context.Context, courseID uint, content []byte) (*model.Course, error) {
	course, err := s.catalog.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}

	key := storage.CoursePDFKey(course.UniversityID, course.ID, course.Name, s.now())
	if err := s.bucket.Upload(ctx, key, content, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to upload course pdf: %w", err)
	}

	previous := course.PDFKey
	updated, err := s.catalog.SetCoursePDFKey(ctx, course.ID, key)
	if err != nil {
		return nil, err
	}

	if previous != "" && previous != key {
		if err := s.bucket.Delete(ctx, previous); err != nil {
			log.Warnf("course pdf: failed to delete replaced object %s: %v", previous, err)
		}
	}
	return updated, nil
}

// DownloadURL returns a short-lived link to the course packet
func (s *CoursePDFService) DownloadURL(ctx context.Context, courseID uint) (*CoursePDF, error) {
	course, err := s.catalog.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.PDFKey == "" {
		return nil, ErrPDFNotAvailable
	}
	if s.bucket == nil {
		return nil, ErrStorageUnavailable
	}

	exists, err := s.bucket.Exists(ctx, course.PDFKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check course pdf: %w", err)
	}
	if !exists {
		log.Warnf("course pdf: object %s of course %d is missing", course.PDFKey, course.ID)
		return nil, ErrPDFNotAvailable
	}

	url, err := s.bucket.PresignedURL(course.PDFKey, CoursePDFURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign course pdf url: %w", err)
	}
	return &CoursePDF{
		CourseID:  course.ID,
		URL:       url,
		ExpiresAt: s.now().Add(CoursePDFURLExpiry),
	}, nil
}
