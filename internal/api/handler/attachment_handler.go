package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/expense-ledger/internal/api/service"
)

// maxAttachmentSize caps transaction attachments at 10MB
const maxAttachmentSize = 10 << 20

// allowedAttachmentTypes is the MIME allow-list for transaction attachments
var allowedAttachmentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// AttachmentHandler handles HTTP requests for transaction attachments
type AttachmentHandler struct {
	attachmentService service.AttachmentService
	logger            *slog.Logger
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(logger *slog.Logger, attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// Upload stores a transaction attachment. All request validation happens
// before the storage write: a rejected request never creates an object.
// The response carries the storage key, never the original filename as key.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondBadRequest(c, "Missing file field")
		return
	}

	entityID := c.PostForm("transaction_id")
	if entityID == "" {
		RespondBadRequest(c, "Missing transaction_id field")
		return
	}

	if fileHeader.Size > maxAttachmentSize {
		RespondBadRequest(c, "Attachment exceeds the 10MB size limit")
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !allowedAttachmentTypes[mimeType] {
		RespondBadRequest(c, "Unsupported attachment type: "+mimeType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded attachment", "error", err)
		RespondInternalError(c)
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(c.Request.Context(), entityID, fileHeader.Filename, mimeType, fileHeader.Size, file)
	if err != nil {
		h.logger.Error("Failed to store attachment", "transaction_id", entityID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, attachment)
}
