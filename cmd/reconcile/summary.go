package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/expense-ledger/internal/client/cli"
	"github.com/expense-ledger/internal/client/query"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show ledger totals and the pending-review count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			summary, err := query.Get(cmd.Context(), a.cache, query.SummaryKey(), a.client.GetSummary)
			if err != nil {
				return fmt.Errorf("failed to fetch summary: %w", err)
			}

			pending, err := query.Get(cmd.Context(), a.cache, query.PendingTransactionsKey(), a.client.PendingCount)
			if err != nil {
				return fmt.Errorf("failed to fetch pending count: %w", err)
			}

			fmt.Println(cli.FormatTitle("Ledger summary"))
			fmt.Printf("Income:   %s\n", formatValue(summary.TotalIncome, "INCOME"))
			fmt.Printf("Expenses: %s\n", formatValue(summary.TotalExpense, "EXPENSE"))
			fmt.Printf("Balance:  %s\n", formatValue(summary.Balance, "INCOME"))
			fmt.Printf("Entries:  %d\n", summary.Count)
			if pending > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%d transactions awaiting review", pending)))
			}
			return nil
		},
	}
}
