package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/expense-ledger/internal/client/api"
	"github.com/expense-ledger/internal/client/query"
)

// ErrRequestInFlight is returned when a decision is already being sent for
// the same imported transaction. At most one mutating request per id may be
// outstanding; a double-click must not issue two approves.
type ErrRequestInFlight struct {
	ID string
}

func (e ErrRequestInFlight) Error() string {
	return fmt.Sprintf("a request for imported transaction %s is already in flight", e.ID)
}

// DecisionClient is the slice of the API client the dispatcher needs.
type DecisionClient interface {
	Approve(ctx context.Context, id string, data *api.TransactionInput) error
	Merge(ctx context.Context, id string, data *api.TransactionInput) error
	Ignore(ctx context.Context, id string) error
	DeleteImportedTransaction(ctx context.Context, id string) error
}

// Dispatcher forwards reconciliation decisions to the server and invalidates
// the caches each decision affects. It applies no optimistic updates: the
// cache only changes after the server acknowledges, by eviction and refetch.
type Dispatcher struct {
	client DecisionClient
	cache  *query.Cache
	logger *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewDispatcher creates a dispatcher over the given client and cache.
func NewDispatcher(client DecisionClient, cache *query.Cache, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		cache:    cache,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Approve accepts a pending unmatched item as a new ledger transaction.
func (d *Dispatcher) Approve(ctx context.Context, importID, id string, data *api.TransactionInput) error {
	return d.dispatch(ctx, importID, id, query.MutationApprove, func(ctx context.Context) error {
		return d.client.Approve(ctx, id, data)
	})
}

// Merge folds a pending matched item into its ledger counterpart.
func (d *Dispatcher) Merge(ctx context.Context, importID, id string, data *api.TransactionInput) error {
	return d.dispatch(ctx, importID, id, query.MutationMerge, func(ctx context.Context) error {
		return d.client.Merge(ctx, id, data)
	})
}

// Reject marks a pending item ignored with no ledger effect.
func (d *Dispatcher) Reject(ctx context.Context, importID, id string) error {
	return d.dispatch(ctx, importID, id, query.MutationReject, func(ctx context.Context) error {
		return d.client.Ignore(ctx, id)
	})
}

// Delete removes a resolved item from the reconciliation queue.
func (d *Dispatcher) Delete(ctx context.Context, importID, id string) error {
	return d.dispatch(ctx, importID, id, query.MutationDelete, func(ctx context.Context) error {
		return d.client.DeleteImportedTransaction(ctx, id)
	})
}

// dispatch runs one decision under the per-id in-flight guard. On success the
// mutation's caches are invalidated; on failure nothing is touched, so the
// next refetch shows the server's authoritative state.
func (d *Dispatcher) dispatch(ctx context.Context, importID, id string, m query.Mutation, call func(ctx context.Context) error) error {
	if !d.begin(id) {
		return ErrRequestInFlight{ID: id}
	}
	defer d.end(id)

	if err := call(ctx); err != nil {
		return err
	}

	d.cache.InvalidateFor(m, importID)
	return nil
}

func (d *Dispatcher) begin(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.inFlight[id]; exists {
		return false
	}
	d.inFlight[id] = struct{}{}
	return true
}

func (d *Dispatcher) end(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, id)
}
