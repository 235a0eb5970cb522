package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// Attachments above this size are rejected before they reach the bucket.
const maxAttachmentSize = 10 << 20 // 10 MiB

// attachmentHandler stores uploaded files and returns their public URLs.
// The URL is then carried on transactions, purchase orders or payment
// requests by the client.
type attachmentHandler struct {
	uploader portssvc.Uploader
}

func newAttachmentHandler(up portssvc.Uploader) *attachmentHandler {
	return &attachmentHandler{uploader: up}
}

// registerAttachmentRoutes registers the attachment upload route. The
// uploader is nil when no bucket is configured.
func registerAttachmentRoutes(rg *gin.RouterGroup, up portssvc.Uploader) {
	h := newAttachmentHandler(up)
	rg.POST("/attachments", h.uploadAttachment)
}

// uploadAttachment godoc
// @Summary Upload an attachment
// @Description Stores an invoice, delivery challan or photo and returns its URL
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} map[string]string "URL of the stored object"
// @Failure 400 {object} map[string]string "Missing or oversized file"
// @Failure 503 {object} map[string]string "Attachment storage not configured"
// @Security BearerAuth
// @Router /attachments [post]
func (h *attachmentHandler) uploadAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Attachment storage is not configured"})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'file' form field is required"})
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10 MiB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	objectName := fmt.Sprintf("%s/%s%s", actor.CompanyID, uuid.New().String(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.uploader.Upload(c.Request.Context(), objectName, contentType, file)
	if err != nil {
		logger.Error("Failed to store attachment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store attachment"})
		return
	}

	logger.Info("Attachment stored", slog.String("object", objectName), slog.Int64("size", fileHeader.Size))
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
