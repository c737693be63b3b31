package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/expense-ledger/internal/config"
	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/platform/messaging/producers"
	"github.com/expense-ledger/internal/platform/objectstore"
)

// ImportServiceImpl implements the ImportService interface
type ImportServiceImpl struct {
	logger       *slog.Logger
	importRepo   imports.Repository
	importedRepo imports.TransactionRepository
	store        objectstore.Store
	producer     producers.MessagePublisher
	storageCfg   *config.StorageConfig
}

// NewImportService creates a new import service
func NewImportService(
	logger *slog.Logger,
	importRepo imports.Repository,
	importedRepo imports.TransactionRepository,
	store objectstore.Store,
	producer producers.MessagePublisher,
	storageCfg *config.StorageConfig,
) ImportService {
	return &ImportServiceImpl{
		logger:       logger,
		importRepo:   importRepo,
		importedRepo: importedRepo,
		store:        store,
		producer:     producer,
		storageCfg:   storageCfg,
	}
}

// UploadStatement streams the file into storage under a uuid-prefixed key.
// The key keeps the original extension so the processor can sanity-check the
// format, but the original name itself never becomes part of the key.
func (s *ImportServiceImpl) UploadStatement(ctx context.Context, fileName, contentType string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s%s", s.storageCfg.StatementDir, uuid.New().String(), path.Ext(fileName))

	fileURL, err := s.store.Put(ctx, key, contentType, r)
	if err != nil {
		s.logger.Error("Failed to upload statement file", "key", key, "error", err)
		return "", fmt.Errorf("failed to upload statement file: %w", err)
	}

	return fileURL, nil
}

// RegisterImport creates the import record and publishes a statement job.
// The import stays PENDING until the processor picks the job up; a publish
// failure after the insert leaves a PENDING import that operators can re-queue.
func (s *ImportServiceImpl) RegisterImport(ctx context.Context, fileURL, originalFileName string, importType imports.ImportType, lastFourDigits, paymentMonth, correlationID string) (*imports.Import, error) {
	imp, err := imports.NewImport(fileURL, originalFileName, importType, paymentMonth, lastFourDigits)
	if err != nil {
		return nil, err
	}

	if err := s.importRepo.Create(ctx, imp); err != nil {
		return nil, err
	}

	job := &shared.StatementJob{
		ImportID:      imp.ID,
		FileURL:       imp.FileURL,
		ImportType:    string(imp.ImportType),
		PaymentMonth:  imp.PaymentMonth,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
	}

	if err := s.producer.Publish(ctx, imp.ID.String(), job); err != nil {
		s.logger.Error("Failed to publish statement job",
			"import_id", imp.ID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to publish statement job: %w", err)
	}

	return imp, nil
}

// ListImports returns all imports, newest first
func (s *ImportServiceImpl) ListImports(ctx context.Context) ([]*imports.Import, error) {
	return s.importRepo.List(ctx)
}

// GetImportByID retrieves one import by ID
func (s *ImportServiceImpl) GetImportByID(ctx context.Context, id uuid.UUID) (*imports.Import, error) {
	return s.importRepo.GetByID(ctx, id)
}

// ListImportedTransactions returns every parsed line of an import,
// soft-deleted ones flagged.
// The import must exist; an unknown id is ErrImportNotFound rather than an
// empty list.
func (s *ImportServiceImpl) ListImportedTransactions(ctx context.Context, importID uuid.UUID) ([]*imports.ImportedTransaction, error) {
	if _, err := s.importRepo.GetByID(ctx, importID); err != nil {
		return nil, err
	}
	return s.importedRepo.ListByImportID(ctx, importID)
}
