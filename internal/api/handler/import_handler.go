package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expense-ledger/internal/api/middleware"
	"github.com/expense-ledger/internal/api/service"
	"github.com/expense-ledger/internal/domain/imports"
)

// maxStatementSize caps uploaded statement files at 20MB
const maxStatementSize = 20 << 20

// ImportHandler handles HTTP requests for bank statement imports
type ImportHandler struct {
	importService service.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(logger *slog.Logger, importService service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// Upload streams a statement file into object storage. The upload is stage
// one of the two-stage import flow: no Import record exists until the client
// registers the returned file URL via Process.
func (h *ImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondBadRequest(c, "Missing file field")
		return
	}
	if fileHeader.Size > maxStatementSize {
		RespondBadRequest(c, "Statement file exceeds the maximum size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded statement", "error", err)
		RespondInternalError(c)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	fileURL, err := h.importService.UploadStatement(c.Request.Context(), fileHeader.Filename, contentType, file)
	if err != nil {
		h.logger.Error("Failed to store statement file", "file_name", fileHeader.Filename, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, UploadStatementResponse{FileURL: fileURL})
}

// Process registers an uploaded statement for asynchronous parsing
func (h *ImportHandler) Process(c *gin.Context) {
	var req ProcessImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	imp, err := h.importService.RegisterImport(
		c.Request.Context(),
		req.FileURL,
		req.OriginalFileName,
		imports.ImportType(req.ImportType),
		req.LastFourDigits,
		req.PaymentMonth,
		middleware.GetCorrelationID(c),
	)
	if err != nil {
		if errors.Is(err, imports.ErrEmptyFileURL) || errors.Is(err, imports.ErrInvalidImportType) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to register import", "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, mapImportToResponse(imp))
}

// List returns all imports, newest first
func (h *ImportHandler) List(c *gin.Context) {
	result, err := h.importService.ListImports(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list imports", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ImportResponse, 0, len(result))
	for _, imp := range result {
		responses = append(responses, mapImportToResponse(imp))
	}
	RespondOK(c, responses)
}

// ListTransactions returns the parsed lines of one import, soft-deleted
// ones included and flagged
func (h *ImportHandler) ListTransactions(c *gin.Context) {
	idParam := c.Param("importId")
	importID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid import ID")
		return
	}

	items, err := h.importService.ListImportedTransactions(c.Request.Context(), importID)
	if err != nil {
		var notFound imports.ErrImportNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Import not found")
			return
		}
		h.logger.Error("Failed to list imported transactions", "import_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ImportedTransactionResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, mapImportedTransactionToResponse(item))
	}
	RespondOK(c, responses)
}

// mapImportToResponse maps an import entity to a response DTO
func mapImportToResponse(imp *imports.Import) ImportResponse {
	return ImportResponse{
		ID:                       imp.ID.String(),
		FileURL:                  imp.FileURL,
		OriginalFileName:         imp.OriginalFileName,
		ImportType:               string(imp.ImportType),
		Status:                   string(imp.Status),
		Error:                    imp.Error,
		CreditCardLastFourDigits: imp.CreditCardLastFourDigits,
		PaymentMonth:             imp.PaymentMonth,
		CreatedAt:                imp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                imp.UpdatedAt.Format(time.RFC3339),
	}
}

// mapImportedTransactionToResponse maps a parsed line to a response DTO
func mapImportedTransactionToResponse(item *imports.ImportedTransaction) ImportedTransactionResponse {
	resp := ImportedTransactionResponse{
		ID:          item.ID.String(),
		ImportID:    item.ImportID.String(),
		Description: item.Description,
		Value:       item.Value,
		Date:        item.Date.Format(time.RFC3339),
		Type:        string(item.Type),
		Status:      string(item.Status),
		Deleted:     item.Deleted,
	}
	if item.MatchingTransactionID != nil {
		resp.MatchingTransactionID = item.MatchingTransactionID.String()
	}
	if item.MatchingTransaction != nil {
		matched := mapTransactionToResponse(item.MatchingTransaction)
		resp.MatchingTransaction = &matched
	}
	if item.ResolvedAt != nil {
		resp.ResolvedAt = item.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}
