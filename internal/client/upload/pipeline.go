// Package upload implements the two-stage statement upload pipeline: push
// the raw file to object storage, then register the resulting object as an
// import for server-side processing.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/expense-ledger/internal/client/api"
	"github.com/expense-ledger/internal/client/query"
)

// ErrUploadInFlight is returned when the pipeline is already carrying a file.
// A single uploader handles one file at a time.
var ErrUploadInFlight = errors.New("an upload is already in progress")

// UploadClient is the slice of the API client the pipeline needs.
type UploadClient interface {
	UploadStatement(ctx context.Context, fileName string, content []byte, progress api.ProgressFunc) (string, error)
	RegisterImport(ctx context.Context, req *api.RegisterImportRequest) (*api.Import, error)
}

// Request describes one statement file to upload and register.
type Request struct {
	FileName       string
	Content        []byte
	ImportType     string
	LastFourDigits string
	PaymentMonth   string
	// Progress, when set, receives fractional progress of the storage
	// upload stage in the range [0, 100].
	Progress api.ProgressFunc
}

// Pipeline uploads statement files. Stage one streams the file to object
// storage; stage two registers the stored object as an import. A stage-one
// failure never creates an import record. A stage-two failure leaves the
// stored object orphaned; no compensating delete is attempted.
type Pipeline struct {
	client UploadClient
	cache  *query.Cache
	logger *slog.Logger

	mu   sync.Mutex
	busy bool
}

// NewPipeline creates a pipeline over the given client and cache.
func NewPipeline(client UploadClient, cache *query.Cache, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Run executes both stages and returns the registered import. On success the
// import registry cache is invalidated so the new record shows up on the
// next list.
func (p *Pipeline) Run(ctx context.Context, req *Request) (*api.Import, error) {
	if !p.acquire() {
		return nil, ErrUploadInFlight
	}
	defer p.release()

	if req.FileName == "" {
		return nil, errors.New("file name is required")
	}
	if len(req.Content) == 0 {
		return nil, errors.New("file is empty")
	}

	fileURL, err := p.client.UploadStatement(ctx, req.FileName, req.Content, req.Progress)
	if err != nil {
		return nil, fmt.Errorf("statement upload failed: %w", err)
	}

	p.logger.Info("Statement uploaded", "file_name", req.FileName, "file_url", fileURL)

	imported, err := p.client.RegisterImport(ctx, &api.RegisterImportRequest{
		FileURL:          fileURL,
		OriginalFileName: req.FileName,
		ImportType:       req.ImportType,
		LastFourDigits:   req.LastFourDigits,
		PaymentMonth:     req.PaymentMonth,
	})
	if err != nil {
		// The uploaded object stays behind in storage.
		p.logger.Warn("Import registration failed after upload", "file_url", fileURL, "error", err)
		return nil, fmt.Errorf("import registration failed: %w", err)
	}

	p.cache.InvalidateFor(query.MutationRegisterImport, "")
	p.logger.Info("Import registered", "import_id", imported.ID, "status", imported.Status)
	return imported, nil
}

func (p *Pipeline) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return false
	}
	p.busy = true
	return true
}

func (p *Pipeline) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = false
}
