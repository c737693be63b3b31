package components

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expense-ledger/internal/domain/imports"
	"github.com/expense-ledger/internal/domain/shared"
)

func newTestParser() *StatementParserImpl {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return &StatementParserImpl{logger: logger}
}

func TestStatementParser_Parse(t *testing.T) {
	parser := newTestParser()

	t.Run("VisaStatement", func(t *testing.T) {
		data := []byte("date,description,amount\n" +
			"2026-03-02,GROCERY STORE 17,54.99\n" +
			"2026-03-05,REFUND ACME,-12.50\n")

		items, err := parser.Parse(imports.ImportTypeVisa, data)
		require.NoError(t, err)
		require.Len(t, items, 2)

		charge := items[0]
		assert.Equal(t, "GROCERY STORE 17", charge.Description)
		assert.Equal(t, int64(5499), charge.Value)
		assert.Equal(t, shared.EntryTypeExpense, charge.Type)
		assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), charge.Date)
		assert.Equal(t, imports.ImportedTransactionStatusPending, charge.Status)
		assert.NotEmpty(t, charge.RawData)

		refund := items[1]
		assert.Equal(t, shared.EntryTypeIncome, refund.Type)
		assert.Equal(t, int64(1250), refund.Value)
	})

	t.Run("AmexColumnOrderAndDateFormat", func(t *testing.T) {
		data := []byte("02/03/2026,129.00,AIRLINE TICKET\n")

		items, err := parser.Parse(imports.ImportTypeAmex, data)
		require.NoError(t, err)
		require.Len(t, items, 1)

		assert.Equal(t, "AIRLINE TICKET", items[0].Description)
		assert.Equal(t, int64(12900), items[0].Value)
		assert.Equal(t, shared.EntryTypeExpense, items[0].Type)
		assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), items[0].Date)
	})

	t.Run("BankExportSignConvention", func(t *testing.T) {
		data := []byte("2026-03-01,SALARY,4500.00\n2026-03-03,RENT,-1800.00\n")

		items, err := parser.Parse(imports.ImportTypeOther, data)
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, shared.EntryTypeIncome, items[0].Type)
		assert.Equal(t, int64(450000), items[0].Value)
		assert.Equal(t, shared.EntryTypeExpense, items[1].Type)
		assert.Equal(t, int64(180000), items[1].Value)
	})

	t.Run("HeaderlessFile", func(t *testing.T) {
		data := []byte("2026-03-02,COFFEE,4.50\n")

		items, err := parser.Parse(imports.ImportTypeVisa, data)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("ZeroAmountLinesSkipped", func(t *testing.T) {
		data := []byte("2026-03-02,COFFEE,4.50\n2026-03-03,CARD FEE WAIVED,0.00\n")

		items, err := parser.Parse(imports.ImportTypeVisa, data)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("ThousandsSeparatorsAndCurrencySymbol", func(t *testing.T) {
		data := []byte("2026-03-02,\"FURNITURE STORE\",\"$1,299.99\"\n")

		items, err := parser.Parse(imports.ImportTypeVisa, data)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(129999), items[0].Value)
	})

	t.Run("InvalidDateBeyondHeader", func(t *testing.T) {
		data := []byte("2026-03-02,COFFEE,4.50\nnot-a-date,TEA,3.00\n")

		_, err := parser.Parse(imports.ImportTypeVisa, data)
		assert.Error(t, err)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		data := []byte("2026-03-02,COFFEE,lots\n")

		_, err := parser.Parse(imports.ImportTypeVisa, data)
		assert.Error(t, err)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		_, err := parser.Parse(imports.ImportTypeVisa, []byte(""))
		assert.ErrorIs(t, err, ErrEmptyStatement)
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		_, err := parser.Parse(imports.ImportTypeVisa, []byte("date,description,amount\n"))
		assert.ErrorIs(t, err, ErrEmptyStatement)
	})

	t.Run("UnknownImportType", func(t *testing.T) {
		_, err := parser.Parse(imports.ImportType("DINERS"), []byte("2026-03-02,COFFEE,4.50\n"))
		assert.ErrorIs(t, err, imports.ErrInvalidImportType)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
		error bool
	}{
		{name: "plain", input: "54.99", want: 5499},
		{name: "negative", input: "-12.50", want: -1250},
		{name: "whole number", input: "45", want: 4500},
		{name: "single fraction digit", input: "4.5", want: 450},
		{name: "thousands separator", input: "1,299.99", want: 129999},
		{name: "currency symbol", input: "$12.00", want: 1200},
		{name: "negative with symbol", input: "-$12.00", want: -1200},
		{name: "garbage", input: "lots", error: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.error {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
