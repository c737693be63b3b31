package components

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/shared"
	"github.com/expense-ledger/internal/importer/service"
)

// ErrEmptyStatement indicates a statement file with no data rows
var ErrEmptyStatement = errors.New("statement file has no data rows")

// statementLayout describes how one card network formats its CSV export
type statementLayout struct {
	dateColumn        int
	descriptionColumn int
	amountColumn      int
	dateFormat        string
	// Card statements list charges as positive amounts, so a positive value
	// is an expense. Generic bank exports are the opposite: positive means
	// a deposit.
	positiveIsExpense bool
}

var layouts = map[imports.ImportType]statementLayout{
	imports.ImportTypeVisa:       {dateColumn: 0, descriptionColumn: 1, amountColumn: 2, dateFormat: "2006-01-02", positiveIsExpense: true},
	imports.ImportTypeMastercard: {dateColumn: 0, descriptionColumn: 1, amountColumn: 2, dateFormat: "2006-01-02", positiveIsExpense: true},
	imports.ImportTypeAmex:       {dateColumn: 0, descriptionColumn: 2, amountColumn: 1, dateFormat: "02/01/2006", positiveIsExpense: true},
	imports.ImportTypeOther:      {dateColumn: 0, descriptionColumn: 1, amountColumn: 2, dateFormat: "2006-01-02", positiveIsExpense: false},
}

// StatementParserImpl parses CSV statement exports into pending imported
// transactions
type StatementParserImpl struct {
	logger *slog.Logger
}

// NewStatementParser creates a new statement parser
func NewStatementParser(logger *slog.Logger) service.StatementParser {
	return &StatementParserImpl{logger: logger}
}

// Parse reads all data rows of the statement. A header row is detected by a
// non-parseable date in the first data column and skipped. Each parsed line
// keeps its raw CSV record so reviewers can inspect the original data.
func (p *StatementParserImpl) Parse(importType imports.ImportType, data []byte) ([]*imports.ImportedTransaction, error) {
	layout, ok := layouts[importType]
	if !ok {
		return nil, imports.ErrInvalidImportType
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var items []*imports.ImportedTransaction
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV at line %d: %w", line+1, err)
		}
		line++

		maxColumn := layout.dateColumn
		if layout.descriptionColumn > maxColumn {
			maxColumn = layout.descriptionColumn
		}
		if layout.amountColumn > maxColumn {
			maxColumn = layout.amountColumn
		}
		if len(record) <= maxColumn {
			return nil, fmt.Errorf("line %d has %d columns, expected at least %d", line, len(record), maxColumn+1)
		}

		date, err := time.Parse(layout.dateFormat, strings.TrimSpace(record[layout.dateColumn]))
		if err != nil {
			if line == 1 {
				// Header row
				continue
			}
			return nil, fmt.Errorf("invalid date %q at line %d", record[layout.dateColumn], line)
		}

		amount, err := parseAmount(record[layout.amountColumn])
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q at line %d", record[layout.amountColumn], line)
		}
		if amount == 0 {
			p.logger.Debug("Skipping zero-amount statement line", "line", line)
			continue
		}

		entryType := shared.EntryTypeIncome
		if (amount > 0) == layout.positiveIsExpense {
			entryType = shared.EntryTypeExpense
		}
		if amount < 0 {
			amount = -amount
		}

		rawData, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("failed to encode raw record at line %d: %w", line, err)
		}

		items = append(items, &imports.ImportedTransaction{
			ID:          uuid.New(),
			Description: strings.TrimSpace(record[layout.descriptionColumn]),
			Value:       amount,
			Date:        date.UTC(),
			Type:        entryType,
			Status:      imports.ImportedTransactionStatusPending,
			RawData:     rawData,
			CreatedAt:   time.Now().UTC(),
		})
	}

	if len(items) == 0 {
		return nil, ErrEmptyStatement
	}
	return items, nil
}

// parseAmount converts a decimal amount string to minor units. Thousands
// separators and a leading currency symbol are tolerated.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}

	var cents int64
	if hasFrac {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
	}

	value := units*100 + cents
	if negative {
		value = -value
	}
	return value, nil
}
