package api

// Import is one uploaded statement file and its processing record.
type Import struct {
	ID                       string `json:"id"`
	FileURL                  string `json:"file_url"`
	OriginalFileName         string `json:"original_file_name"`
	ImportType               string `json:"import_type"`
	Status                   string `json:"status"`
	Error                    string `json:"error,omitempty"`
	CreditCardLastFourDigits string `json:"credit_card_last_four_digits,omitempty"`
	PaymentMonth             string `json:"payment_month,omitempty"`
	CreatedAt                string `json:"created_at"`
	UpdatedAt                string `json:"updated_at"`
}

// ImportedTransaction is one parsed statement line awaiting a reconciliation
// decision.
type ImportedTransaction struct {
	ID                    string       `json:"id"`
	ImportID              string       `json:"import_id"`
	Description           string       `json:"description"`
	Value                 int64        `json:"value"`
	Date                  string       `json:"date"`
	Type                  string       `json:"type"`
	Status                string       `json:"status"`
	MatchingTransactionID string       `json:"matching_transaction_id,omitempty"`
	MatchingTransaction   *Transaction `json:"matching_transaction,omitempty"`
	ResolvedAt            string       `json:"resolved_at,omitempty"`
	Deleted               bool         `json:"deleted,omitempty"`
}

// HasMatch reports whether the server found a ledger candidate for this item.
// The client never computes matches itself.
func (t *ImportedTransaction) HasMatch() bool {
	return t.MatchingTransaction != nil
}

// Transaction is the client's projection of a ledger entry.
type Transaction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Value       int64  `json:"value"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Pending     bool   `json:"pending"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TransactionInput carries user-edited transaction fields sent with approve
// and merge decisions.
type TransactionInput struct {
	Description string `json:"description"`
	Value       int64  `json:"value"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
}

// RegisterImportRequest registers an uploaded statement file for processing.
type RegisterImportRequest struct {
	FileURL          string `json:"file_url"`
	OriginalFileName string `json:"original_file_name"`
	ImportType       string `json:"import_type"`
	LastFourDigits   string `json:"credit_card_last_four_digits,omitempty"`
	PaymentMonth     string `json:"payment_month,omitempty"`
}

// Attachment describes a stored transaction attachment.
type Attachment struct {
	FileKey  string `json:"fileKey"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	MimeType string `json:"mimeType"`
}

// Summary aggregates ledger totals for a period.
type Summary struct {
	TotalIncome  int64 `json:"total_income"`
	TotalExpense int64 `json:"total_expense"`
	Balance      int64 `json:"balance"`
	Count        int64 `json:"count"`
}

// TrendPoint is one month of the income/expense trend series.
type TrendPoint struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// CategoryTrend is one category's expense total for a period.
type CategoryTrend struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
	Count    int64  `json:"count"`
}
