package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/expense-ledger/internal/domain/shared"
)

// WorkerPoolProcessingService runs statement processing on a bounded worker
// pool so one oversized statement cannot starve the consumer
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
	// Protects the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessStatement submits a statement job to the worker pool and waits for
// the result so the consumer commits offsets only after processing finishes
func (s *WorkerPoolProcessingService) ProcessStatement(ctx context.Context, job *shared.StatementJob) error {
	logger := s.logger
	if job.CorrelationID != "" {
		logger = s.logger.With("correlation_id", job.CorrelationID)
	}

	logger.Info("Submitting statement job to worker pool", "import_id", job.ImportID.String())

	resultChan := make(chan error, 1)

	importID := job.ImportID.String()
	s.mu.Lock()
	s.results[importID] = resultChan
	s.mu.Unlock()

	// Copy the job to avoid data races with the caller
	jobCopy := *job

	err := s.pool.Submit(func() {
		err := s.baseService.ProcessStatement(ctx, &jobCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, importID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, importID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit statement job to worker pool",
			"import_id", job.ImportID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
