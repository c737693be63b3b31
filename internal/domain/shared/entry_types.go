package shared

// EntryType classifies a ledger entry as money in or money out
type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

// ValidEntryType reports whether t is a known entry type
func ValidEntryType(t EntryType) bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
