package upload

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/expense-ledger/internal/client/api"
	"github.com/expense-ledger/internal/client/query"
)

// MockUploadClient mocks the API calls the pipeline makes
type MockUploadClient struct {
	mock.Mock
}

func (m *MockUploadClient) UploadStatement(ctx context.Context, fileName string, content []byte, progress api.ProgressFunc) (string, error) {
	args := m.Called(ctx, fileName, content, progress)
	return args.String(0), args.Error(1)
}

func (m *MockUploadClient) RegisterImport(ctx context.Context, req *api.RegisterImportRequest) (*api.Import, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.Import), args.Error(1)
}

func newTestPipeline(client *MockUploadClient) (*Pipeline, *query.Cache) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := query.NewCache(logger)
	return NewPipeline(client, cache, logger), cache
}

func statementRequest() *Request {
	return &Request{
		FileName:     "visa_march.csv",
		Content:      []byte("2026-03-14,GROCERY STORE,54.99\n"),
		ImportType:   "VISA",
		PaymentMonth: "2026-03",
	}
}

func TestPipelineRun(t *testing.T) {
	t.Run("BothStagesSucceed", func(t *testing.T) {
		client := new(MockUploadClient)
		pipeline, cache := newTestPipeline(client)

		importsCalls := 0
		_, err := cache.Get(context.Background(), query.ImportsKey(), func(_ context.Context) (any, error) {
			importsCalls++
			return "imports", nil
		})
		require.NoError(t, err)

		client.On("UploadStatement", mock.Anything, "visa_march.csv", mock.Anything, mock.Anything).
			Return("gs://expense-ledger/statements/abc.csv", nil)
		client.On("RegisterImport", mock.Anything, mock.MatchedBy(func(req *api.RegisterImportRequest) bool {
			return req.FileURL == "gs://expense-ledger/statements/abc.csv" &&
				req.OriginalFileName == "visa_march.csv" &&
				req.ImportType == "VISA" &&
				req.PaymentMonth == "2026-03"
		})).Return(&api.Import{ID: "import-1", Status: "PENDING"}, nil)

		imported, err := pipeline.Run(context.Background(), statementRequest())

		require.NoError(t, err)
		assert.Equal(t, "import-1", imported.ID)

		// Registry cache must refetch after registration.
		_, err = cache.Get(context.Background(), query.ImportsKey(), func(_ context.Context) (any, error) {
			importsCalls++
			return "imports", nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, importsCalls)
		client.AssertExpectations(t)
	})

	t.Run("StageOneFailureNeverRegistersImport", func(t *testing.T) {
		client := new(MockUploadClient)
		pipeline, _ := newTestPipeline(client)

		client.On("UploadStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", assert.AnError)

		_, err := pipeline.Run(context.Background(), statementRequest())

		require.Error(t, err)
		client.AssertNotCalled(t, "RegisterImport", mock.Anything, mock.Anything)
	})

	t.Run("StageTwoFailureLeavesRegistryCacheIntact", func(t *testing.T) {
		client := new(MockUploadClient)
		pipeline, cache := newTestPipeline(client)

		importsCalls := 0
		_, err := cache.Get(context.Background(), query.ImportsKey(), func(_ context.Context) (any, error) {
			importsCalls++
			return "imports", nil
		})
		require.NoError(t, err)

		client.On("UploadStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("gs://expense-ledger/statements/abc.csv", nil)
		client.On("RegisterImport", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		_, err = pipeline.Run(context.Background(), statementRequest())

		require.Error(t, err)
		_, err = cache.Get(context.Background(), query.ImportsKey(), func(_ context.Context) (any, error) {
			importsCalls++
			return "imports", nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, importsCalls)
	})

	t.Run("EmptyFileRejectedBeforeUpload", func(t *testing.T) {
		client := new(MockUploadClient)
		pipeline, _ := newTestPipeline(client)

		req := statementRequest()
		req.Content = nil
		_, err := pipeline.Run(context.Background(), req)

		require.Error(t, err)
		client.AssertNotCalled(t, "UploadStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingFileNameRejectedBeforeUpload", func(t *testing.T) {
		client := new(MockUploadClient)
		pipeline, _ := newTestPipeline(client)

		req := statementRequest()
		req.FileName = ""
		_, err := pipeline.Run(context.Background(), req)

		require.Error(t, err)
		client.AssertNotCalled(t, "UploadStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ProgressCallbackForwardedToUpload", func(t *testing.T) {
		client := new(MockUploadClient)
		pipeline, _ := newTestPipeline(client)

		var reported []float64
		req := statementRequest()
		req.Progress = func(pct float64) { reported = append(reported, pct) }

		client.On("UploadStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				progress := args.Get(3).(api.ProgressFunc)
				progress(50)
				progress(100)
			}).
			Return("gs://expense-ledger/statements/abc.csv", nil)
		client.On("RegisterImport", mock.Anything, mock.Anything).
			Return(&api.Import{ID: "import-1", Status: "PENDING"}, nil)

		_, err := pipeline.Run(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, []float64{50, 100}, reported)
	})
}

func TestPipelineSingleFileInFlight(t *testing.T) {
	t.Run("SecondRunRejectedWhileFirstUploads", func(t *testing.T) {
		client := new(MockUploadClient)
		pipeline, _ := newTestPipeline(client)

		started := make(chan struct{})
		release := make(chan struct{})
		client.On("UploadStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(_ mock.Arguments) {
				close(started)
				<-release
			}).
			Return("gs://expense-ledger/statements/abc.csv", nil).Once()
		client.On("RegisterImport", mock.Anything, mock.Anything).
			Return(&api.Import{ID: "import-1", Status: "PENDING"}, nil).Once()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = pipeline.Run(context.Background(), statementRequest())
		}()

		<-started
		_, err := pipeline.Run(context.Background(), statementRequest())

		assert.ErrorIs(t, err, ErrUploadInFlight)
		close(release)
		wg.Wait()
	})

	t.Run("PipelineFreeAgainAfterCompletion", func(t *testing.T) {
		client := new(MockUploadClient)
		pipeline, _ := newTestPipeline(client)

		client.On("UploadStatement", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("gs://expense-ledger/statements/abc.csv", nil).Twice()
		client.On("RegisterImport", mock.Anything, mock.Anything).
			Return(&api.Import{ID: "import-1", Status: "PENDING"}, nil).Twice()

		_, err := pipeline.Run(context.Background(), statementRequest())
		require.NoError(t, err)
		_, err = pipeline.Run(context.Background(), statementRequest())
		require.NoError(t, err)
	})
}
