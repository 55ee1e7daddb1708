package student

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusgate/admissions-api/model"
	"github.com/campusgate/admissions-api/services/storage"
	"github.com/campusgate/admissions-api/utils/pdfvalidation"
	"github.com/campusgate/admissions-api/utils/response"
)

// UploadDocument stores a certificate scan for one credential. A second
// upload for the same credential replaces the previous scan.
func (h *StudentHandler) UploadDocument(c *fiber.Ctx) error {
	if h.documents == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Document storage is not configured")
	}

	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	kind := c.FormValue("kind")
	if kind != model.DocumentSSCCertificate && kind != model.DocumentHSCCertificate {
		return response.BadRequest(c, "Kind must be 'ssc_certificate' or 'hsc_certificate'")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A PDF file is required")
	}

	result, err := pdfvalidation.ValidatePDFFile(file, pdfvalidation.CertificateLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to validate file", err)
	}
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read file", err)
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return response.InternalServerError(c, "Failed to read file", err)
	}

	key := storage.DocumentKey(profile.ID, kind, file.Filename)
	if err := h.documents.Upload(c.Context(), key, content, "application/pdf"); err != nil {
		return response.InternalServerError(c, "Failed to store document", err)
	}

	document := model.CredentialDocument{
		StudentID:  profile.ID,
		Kind:       kind,
		FileName:   file.Filename,
		StorageKey: key,
		SizeBytes:  result.FileSize,
		PageCount:  result.PageCount,
	}
	err = h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"file_name", "storage_key", "size_bytes", "page_count", "updated_at"}),
	}).Create(&document).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to save document record", err)
	}

	return response.Created(c, "Document uploaded successfully", document)
}

// GetDocumentURL returns a short-lived download link for the student's own
// uploaded certificate
func (h *StudentHandler) GetDocumentURL(c *fiber.Ctx) error {
	if h.documents == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Document storage is not configured")
	}

	profile, err := h.loadProfile(c)
	if err != nil {
		return response.NotFound(c, "Student profile not found")
	}

	documentID, err := c.ParamsInt("id")
	if err != nil || documentID <= 0 {
		return response.BadRequest(c, "Invalid document id")
	}

	var document model.CredentialDocument
	err = h.db.Where("student_id = ?", profile.ID).First(&document, documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Document not found")
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to load document", err)
	}

	url, err := h.documents.PresignedURL(document.StorageKey, 15*time.Minute)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate download link", err)
	}

	return response.Success(c, fiber.Map{
		"url":        url,
		"expires_in": int((15 * time.Minute).Seconds()),
	})
}
