package handler

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token string `json:"token"`
}

// ProcessImportRequest registers an uploaded statement file for processing
type ProcessImportRequest struct {
	FileURL          string `json:"file_url" binding:"required"`
	OriginalFileName string `json:"original_file_name" binding:"required"`
	ImportType       string `json:"import_type" binding:"required,oneof=VISA MASTERCARD AMEX OTHER"`
	LastFourDigits   string `json:"credit_card_last_four_digits,omitempty" binding:"omitempty,len=4,numeric"`
	PaymentMonth     string `json:"payment_month,omitempty" binding:"omitempty,len=7"`
}

// UploadStatementResponse carries the stored statement file URL
type UploadStatementResponse struct {
	FileURL string `json:"fileUrl"`
}

// ImportResponse represents an import in API responses
type ImportResponse struct {
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

// ImportedTransactionResponse represents a parsed statement line in API responses
type ImportedTransactionResponse struct {
	ID                    string               `json:"id"`
	ImportID              string               `json:"import_id"`
	Description           string               `json:"description"`
	Value                 int64                `json:"value"`
	Date                  string               `json:"date"`
	Type                  string               `json:"type"`
	Status                string               `json:"status"`
	MatchingTransactionID string               `json:"matching_transaction_id,omitempty"`
	MatchingTransaction   *TransactionResponse `json:"matching_transaction,omitempty"`
	Deleted               bool                 `json:"deleted,omitempty"`
	ResolvedAt            string               `json:"resolved_at,omitempty"`
}

// ReconcileDecisionRequest is the optional body of an approve or merge
// decision. Set fields replace the parsed statement values on the resulting
// ledger transaction; an empty body keeps them unchanged.
type ReconcileDecisionRequest struct {
	Description string `json:"description"`
	Value       int64  `json:"value" binding:"omitempty,gt=0"`
	Date        string `json:"date"`
	Type        string `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Category    string `json:"category"`
}

// CreateTransactionRequest represents a request to create a ledger transaction
type CreateTransactionRequest struct {
	Description string `json:"description" binding:"required"`
	Value       int64  `json:"value" binding:"required,gt=0"`
	Date        string `json:"date" binding:"required"` // RFC 3339 or YYYY-MM-DD
	Type        string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category    string `json:"category,omitempty"`
	Pending     bool   `json:"pending,omitempty"`
}

// UpdateTransactionRequest represents a request to update a ledger transaction
type UpdateTransactionRequest struct {
	Description string `json:"description" binding:"required"`
	Value       int64  `json:"value" binding:"required,gt=0"`
	Date        string `json:"date" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category    string `json:"category,omitempty"`
	Pending     bool   `json:"pending,omitempty"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
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

// PendingCountResponse carries the number of transactions awaiting review
type PendingCountResponse struct {
	Count int64 `json:"count"`
}

// CreateScheduledRequest represents a request to create a scheduled transaction
type CreateScheduledRequest struct {
	Description   string `json:"description" binding:"required"`
	Value         int64  `json:"value" binding:"required,gt=0"`
	Type          string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category      string `json:"category,omitempty"`
	IntervalUnit  string `json:"interval_unit" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	IntervalCount int    `json:"interval_count" binding:"required,gt=0"`
	NextRun       string `json:"next_run" binding:"required"`
}

// UpdateScheduledRequest represents a request to update a scheduled transaction
type UpdateScheduledRequest struct {
	Description   string `json:"description" binding:"required"`
	Value         int64  `json:"value" binding:"required,gt=0"`
	Type          string `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category      string `json:"category,omitempty"`
	IntervalUnit  string `json:"interval_unit" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	IntervalCount int    `json:"interval_count" binding:"required,gt=0"`
	NextRun       string `json:"next_run" binding:"required"`
	Enabled       bool   `json:"enabled"`
}

// UpdateSettingsRequest represents a request to save notification settings
type UpdateSettingsRequest struct {
	NotifyOnImportCompleted bool   `json:"notify_on_import_completed"`
	NotifyOnScheduledRun    bool   `json:"notify_on_scheduled_run"`
	TelegramEnabled         bool   `json:"telegram_enabled"`
	TelegramChatID          string `json:"telegram_chat_id,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// PeriodParams represents an optional date-range filter for aggregate endpoints
type PeriodParams struct {
	Start string `form:"start,omitempty"`
	End   string `form:"end,omitempty"`
}
