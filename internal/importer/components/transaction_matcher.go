package components

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/domain/transaction"
	"github.com/expense-ledger/internal/importer/service"
)

// matchGroup keys candidate lookup: only lines and ledger entries with the
// same type and exact value can pair
type matchGroup struct {
	entryType shared.EntryType
	value     int64
}

// TransactionMatcherImpl pairs parsed statement lines with pending ledger
// transactions of the same type and value whose date falls within the
// configured window. Within a group, both sides are walked in date order and
// each line takes the earliest unused candidate in range, which maximizes
// the number of pairs.
type TransactionMatcherImpl struct {
	transactionRepo transaction.Repository
	windowDays      int
	logger          *slog.Logger
}

// NewTransactionMatcher creates a new transaction matcher
func NewTransactionMatcher(transactionRepo transaction.Repository, windowDays int, logger *slog.Logger) service.TransactionMatcher {
	return &TransactionMatcherImpl{
		transactionRepo: transactionRepo,
		windowDays:      windowDays,
		logger:          logger,
	}
}

// Match fills MatchingTransactionID and the denormalized snapshot on every
// line that pairs with a ledger transaction. Each ledger transaction is used
// at most once per batch.
func (m *TransactionMatcherImpl) Match(ctx context.Context, items []*imports.ImportedTransaction) error {
	groups := make(map[matchGroup][]*imports.ImportedTransaction)
	for _, item := range items {
		key := matchGroup{entryType: item.Type, value: item.Value}
		groups[key] = append(groups[key], item)
	}

	window := time.Duration(m.windowDays) * 24 * time.Hour

	for key, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		start := group[0].Date.Add(-window)
		end := group[len(group)-1].Date.Add(window)

		candidates, err := m.transactionRepo.GetByTypeAndValueInWindow(ctx, key.entryType, key.value, start, end)
		if err != nil {
			return fmt.Errorf("failed to load match candidates for value %d: %w", key.value, err)
		}

		// Only pending ledger entries are up for matching: a confirmed entry
		// already represents settled money and merging into it would double
		// count.
		pending := candidates[:0]
		for _, c := range candidates {
			if c.Pending {
				pending = append(pending, c)
			}
		}

		m.matchGroup(group, pending)
	}

	return nil
}

func (m *TransactionMatcherImpl) matchGroup(group []*imports.ImportedTransaction, candidates []*transaction.Transaction) {
	next := 0
	for _, item := range group {
		for next < len(candidates) && m.tooEarly(candidates[next], item) {
			// Candidate is too old for this line, and lines only get later
			next++
		}
		if next >= len(candidates) || !m.inWindow(candidates[next], item) {
			continue
		}

		matched := candidates[next]
		next++

		id := matched.ID
		item.MatchingTransactionID = &id
		item.MatchingTransaction = matched
		m.logger.Debug("Matched statement line to ledger transaction",
			"imported_transaction_id", item.ID.String(),
			"transaction_id", matched.ID.String(),
		)
	}
}

func (m *TransactionMatcherImpl) tooEarly(candidate *transaction.Transaction, item *imports.ImportedTransaction) bool {
	return item.Date.Sub(candidate.Date) > time.Duration(m.windowDays)*24*time.Hour
}

func (m *TransactionMatcherImpl) inWindow(candidate *transaction.Transaction, item *imports.ImportedTransaction) bool {
	diff := candidate.Date.Sub(item.Date)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(m.windowDays)*24*time.Hour
}
