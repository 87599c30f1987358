package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"gamecodeshop/internal/infrastructure/storage"
	"gamecodeshop/pkg/errors"
	"gamecodeshop/pkg/logger"
	"gamecodeshop/pkg/response"
)

type EvidenceUploader interface {
	UploadEvidence(ctx context.Context, file io.Reader, contentType, userID string) (string, error)
}

type EvidenceHandler struct {
	uploader EvidenceUploader
}

var evidenceHandler *EvidenceHandler

func NewEvidenceHandler(uploader EvidenceUploader) *EvidenceHandler {
	return &EvidenceHandler{uploader: uploader}
}

func SetupEvidenceHandler(uploader EvidenceUploader) {
	evidenceHandler = NewEvidenceHandler(uploader)
}

func GetEvidenceHandler() *EvidenceHandler {
	return evidenceHandler
}

// UploadEvidence stores one image or PDF and returns its public URL for a
// dispute's evidence list.
func (h *EvidenceHandler) UploadEvidence(c echo.Context) error {
	if h.uploader == nil {
		return response.Error(c, errors.New("SERVICE_UNAVAILABLE", "ยังไม่เปิดให้อัปโหลดหลักฐาน", http.StatusServiceUnavailable, nil))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("กรุณาแนบไฟล์", err))
	}
	if fileHeader.Size > storage.MaxEvidenceSize {
		return response.Error(c, errors.BadRequest("ไฟล์มีขนาดใหญ่เกิน 5MB", nil))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.IsAllowedEvidenceType(contentType) {
		return response.Error(c, errors.BadRequest("รองรับเฉพาะไฟล์รูปภาพหรือ PDF", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("ไม่สามารถอ่านไฟล์ได้", err))
	}
	defer file.Close()

	userID := currentUser(c)
	url, err := h.uploader.UploadEvidence(c.Request().Context(), file, contentType, userID)
	if err != nil {
		logger.Error("evidence upload failed for user %s: %v", userID, err)
		return response.Error(c, errors.Internal("อัปโหลดไฟล์ไม่สำเร็จ", err))
	}

	return response.Created(c, map[string]string{"url": url})
}
