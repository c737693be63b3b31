package query

import "strconv"

// Well-known query keys. Every component that reads or invalidates a query
// goes through these constructors so key identity is defined in one place.

// ImportsKey identifies the import registry list.
func ImportsKey() Key {
	return NewKey("imports")
}

// ImportedTransactionsKey identifies one import's reconciliation queue.
func ImportedTransactionsKey(importID string) Key {
	return NewKey("imported-transactions", importID)
}

// PendingTransactionsKey identifies the pending-transactions list and badge
// count.
func PendingTransactionsKey() Key {
	return NewKey("transactions", "pending")
}

// TransactionsKey identifies the paginated ledger transaction lists.
func TransactionsKey() Key {
	return NewKey("transactions", "list")
}

// TransactionsAggregateKey identifies the aggregate transaction cache.
func TransactionsAggregateKey() Key {
	return NewKey("transactions", "all")
}

// SummaryKey identifies the transaction summary.
func SummaryKey() Key {
	return NewKey("transactions", "summary")
}

// TrendsPrefix is the key family shared by every trend cache. Trend queries
// append their own parameters (period, category) under this prefix.
func TrendsPrefix() Key {
	return NewKey("trends")
}

// TrendsMonthlyKey identifies the per-month income/expense series for the
// given number of months.
func TrendsMonthlyKey(months int) Key {
	return NewKey("trends", "monthly", strconv.Itoa(months))
}

// TrendsCategoriesKey identifies the per-category expense totals.
func TrendsCategoriesKey() Key {
	return NewKey("trends", "categories")
}

// Mutation enumerates the client operations that change server state.
type Mutation int

const (
	// MutationApprove accepts an unmatched imported transaction as a new
	// ledger transaction.
	MutationApprove Mutation = iota
	// MutationMerge folds a matched imported transaction into its ledger
	// counterpart.
	MutationMerge
	// MutationReject marks an imported transaction ignored.
	MutationReject
	// MutationDelete removes a resolved imported transaction from the queue.
	MutationDelete
	// MutationRegisterImport registers an uploaded statement for processing.
	MutationRegisterImport
)

// ledgerDerivedKeys are every cache derived from ledger transactions. Approve
// and merge change ledger state, so all of them go stale at once.
func ledgerDerivedKeys(importID string) []Key {
	return []Key{
		ImportedTransactionsKey(importID),
		PendingTransactionsKey(),
		TransactionsKey(),
		TransactionsAggregateKey(),
		SummaryKey(),
	}
}

// InvalidateFor evicts every cache affected by the given mutation. The
// mutation-to-keys mapping lives here and only here; call sites never
// enumerate keys themselves.
func (c *Cache) InvalidateFor(m Mutation, importID string) {
	switch m {
	case MutationApprove, MutationMerge:
		c.Invalidate(ledgerDerivedKeys(importID)...)
		c.InvalidatePrefix(TrendsPrefix())
	case MutationReject, MutationDelete:
		// No ledger data changed; only the import's own queue is stale.
		c.Invalidate(ImportedTransactionsKey(importID))
	case MutationRegisterImport:
		c.Invalidate(ImportsKey())
	}
}
