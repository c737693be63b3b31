// Package api is the thin HTTP client the reconciliation CLI uses to talk to
// the ledger server. It knows the endpoint paths and the response envelope;
// everything above it works with decoded types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/expense-ledger/internal/client/session"
)

// ErrSessionExpired is returned when the server answers 401. By the time the
// caller sees it the session has already been cleared.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Error is a non-2xx response decoded from the server's error envelope.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	CorrelationID string `json:"correlation_id"`
}

// Client talks to the ledger server. All methods route 401 responses through
// the forced-logout path regardless of which operation hit them.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	logger     *slog.Logger
}

// NewClient creates a client bound to a base URL and session.
func NewClient(baseURL string, sess *session.Session, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    sess,
		logger:     logger,
	}
}

// Login authenticates and stores the issued token in the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return fmt.Errorf("failed to encode login request: %w", err)
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "application/json", bytes.NewReader(body), &resp); err != nil {
		return err
	}

	if err := c.session.SetToken(resp.Token); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// ListImports fetches the full import registry.
func (c *Client) ListImports(ctx context.Context) ([]*Import, error) {
	var imports []*Import
	if err := c.do(ctx, http.MethodGet, "/api/imports", "", nil, &imports); err != nil {
		return nil, err
	}
	return imports, nil
}

// ListImportedTransactions fetches one import's reconciliation queue.
func (c *Client) ListImportedTransactions(ctx context.Context, importID string) ([]*ImportedTransaction, error) {
	var items []*ImportedTransaction
	path := fmt.Sprintf("/api/imports/%s/transactions", importID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Approve accepts a pending unmatched item as a new ledger transaction,
// optionally with user-edited fields.
func (c *Client) Approve(ctx context.Context, id string, data *TransactionInput) error {
	return c.decide(ctx, id, "approve", data)
}

// Merge folds a pending matched item into its ledger counterpart, optionally
// amending the ledger fields.
func (c *Client) Merge(ctx context.Context, id string, data *TransactionInput) error {
	return c.decide(ctx, id, "merge", data)
}

// Ignore rejects a pending item with no ledger effect.
func (c *Client) Ignore(ctx context.Context, id string) error {
	return c.decide(ctx, id, "ignore", nil)
}

// DeleteImportedTransaction removes a resolved item from the queue.
func (c *Client) DeleteImportedTransaction(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/imports/transactions/%s", id)
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

func (c *Client) decide(ctx context.Context, id, action string, data *TransactionInput) error {
	var body io.Reader
	contentType := ""
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", action, err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	path := fmt.Sprintf("/api/imports/transactions/%s/%s", id, action)
	return c.do(ctx, http.MethodPost, path, contentType, body, nil)
}

// ProgressFunc receives fractional upload progress in the range [0, 100].
type ProgressFunc func(pct float64)

// UploadStatement uploads a raw statement file and returns the stored file
// URL. Progress is reported as the request body is consumed.
func (c *Client) UploadStatement(ctx context.Context, fileName string, content []byte, progress ProgressFunc) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	body := newProgressReader(&buf, int64(buf.Len()), progress)

	var resp struct {
		FileURL string `json:"fileUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/imports/upload", writer.FormDataContentType(), body, &resp); err != nil {
		return "", err
	}
	return resp.FileURL, nil
}

// RegisterImport asks the server to parse a previously uploaded statement.
func (c *Client) RegisterImport(ctx context.Context, req *RegisterImportRequest) (*Import, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode import registration: %w", err)
	}

	var imported Import
	if err := c.do(ctx, http.MethodPost, "/api/imports/process", "application/json", bytes.NewReader(body), &imported); err != nil {
		return nil, err
	}
	return &imported, nil
}

// UploadAttachment attaches a file to a ledger transaction.
func (c *Client) UploadAttachment(ctx context.Context, transactionID, fileName, mimeType string, content []byte) (*Attachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("transaction_id", transactionID); err != nil {
		return nil, fmt.Errorf("failed to build attachment request: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build attachment request: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to build attachment request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build attachment request: %w", err)
	}

	var attachment Attachment
	if err := c.do(ctx, http.MethodPost, "/api/transactions/attachments/upload", writer.FormDataContentType(), &buf, &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListTransactions fetches one page of the ledger.
func (c *Client) ListTransactions(ctx context.Context, page, perPage int) ([]*Transaction, error) {
	var transactions []*Transaction
	path := fmt.Sprintf("/api/transactions?page=%d&per_page=%d", page, perPage)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// PendingCount fetches the number of ledger transactions awaiting review.
func (c *Client) PendingCount(ctx context.Context) (int64, error) {
	var resp struct {
		Count int64 `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/transactions/pending-count", "", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetSummary fetches aggregate ledger totals.
func (c *Client) GetSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.do(ctx, http.MethodGet, "/api/transactions/summary", "", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetTrends fetches the monthly income/expense trend series.
func (c *Client) GetTrends(ctx context.Context, months int) ([]*TrendPoint, error) {
	var trends []*TrendPoint
	path := fmt.Sprintf("/api/trends?months=%d", months)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

// GetCategoryTrends returns the per-category expense totals for the current
// period.
func (c *Client) GetCategoryTrends(ctx context.Context) ([]*CategoryTrend, error) {
	var totals []*CategoryTrend
	if err := c.do(ctx, http.MethodGet, "/api/trends/categories", "", nil, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// do issues one request and decodes the response envelope into out. A 401
// from any endpoint clears the session before returning ErrSessionExpired;
// callers never handle authentication failures locally.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout()
		return ErrSessionExpired
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || env.Data == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// forceLogout clears the session state so every subsequent call starts
// unauthenticated.
func (c *Client) forceLogout() {
	c.logger.Warn("Server rejected credentials, clearing session")
	if err := c.session.Clear(); err != nil {
		c.logger.Error("Failed to clear session", "error", err)
	}
}

// progressReader reports fractional progress as the request body is read.
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil || total <= 0 {
		return r
	}
	return &progressReader{reader: r, total: total, progress: progress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.progress(float64(p.read) / float64(p.total) * 100)
	}
	return n, err
}
