package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/expense-ledger/internal/config"
	"github.com/expense-ledger/internal/platform/objectstore"
)

// AttachmentServiceImpl implements the AttachmentService interface
type AttachmentServiceImpl struct {
	logger     *slog.Logger
	store      objectstore.Store
	storageCfg *config.StorageConfig
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(logger *slog.Logger, store objectstore.Store, storageCfg *config.StorageConfig) AttachmentService {
	return &AttachmentServiceImpl{
		logger:     logger,
		store:      store,
		storageCfg: storageCfg,
	}
}

// Upload stores the attachment under <entityID>/<random key>. The original
// filename is echoed back in metadata but is never part of the storage key.
func (s *AttachmentServiceImpl) Upload(ctx context.Context, entityID, fileName, mimeType string, size int64, r io.Reader) (*Attachment, error) {
	key := fmt.Sprintf("%s/%s/%s", s.storageCfg.AttachmentDir, entityID, uuid.New().String())

	if _, err := s.store.Put(ctx, key, mimeType, r); err != nil {
		s.logger.Error("Failed to upload attachment",
			"entity_id", entityID,
			"key", key,
			"error", err,
		)
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	return &Attachment{
		FileKey:  key,
		FileName: fileName,
		FileSize: size,
		MimeType: mimeType,
	}, nil
}
