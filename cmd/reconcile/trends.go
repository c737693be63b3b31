package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	clientapi "github.com/expense-ledger/internal/client/api"
	"github.com/expense-ledger/internal/client/cli"
	"github.com/expense-ledger/internal/client/query"
)

func trendsCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show monthly income/expense trends and category totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			// The two series come from separate endpoints and cache entries.
			// Fetch them in parallel; if one fails the other still renders.
			var (
				wg         sync.WaitGroup
				monthly    []*clientapi.TrendPoint
				monthlyErr error
				totals     []*clientapi.CategoryTrend
				totalsErr  error
			)
			wg.Add(2)
			go func() {
				defer wg.Done()
				monthly, monthlyErr = query.Get(cmd.Context(), a.cache, query.TrendsMonthlyKey(months), func(ctx context.Context) ([]*clientapi.TrendPoint, error) {
					return a.client.GetTrends(ctx, months)
				})
			}()
			go func() {
				defer wg.Done()
				totals, totalsErr = query.Get(cmd.Context(), a.cache, query.TrendsCategoriesKey(), a.client.GetCategoryTrends)
			}()
			wg.Wait()

			if monthlyErr != nil {
				fmt.Println(cli.FormatError(fmt.Sprintf("failed to fetch monthly trends: %v", monthlyErr)))
			} else {
				renderMonthlyTrends(monthly)
			}

			fmt.Println()
			if totalsErr != nil {
				fmt.Println(cli.FormatError(fmt.Sprintf("failed to fetch category totals: %v", totalsErr)))
			} else {
				renderCategoryTrends(totals)
			}

			if monthlyErr != nil && totalsErr != nil {
				return fmt.Errorf("failed to fetch trends: %w", monthlyErr)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, "number of months of history")
	return cmd
}

func renderMonthlyTrends(monthly []*clientapi.TrendPoint) {
	fmt.Println(cli.FormatTitle("Monthly trends"))
	if len(monthly) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No transactions yet."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Month"),
		cli.HeaderStyle.Render("Income"),
		cli.HeaderStyle.Render("Expenses"))
	for _, point := range monthly {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			point.Month,
			formatValue(point.Income, "INCOME"),
			formatValue(point.Expense, "EXPENSE"))
	}
}

func renderCategoryTrends(totals []*clientapi.CategoryTrend) {
	fmt.Println(cli.FormatTitle("Spending by category"))
	if len(totals) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No categorized expenses this period."))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Total"),
		cli.HeaderStyle.Render("Entries"))
	for _, total := range totals {
		category := total.Category
		if category == "" {
			category = "(uncategorized)"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n",
			category,
			formatValue(total.Total, "EXPENSE"),
			total.Count)
	}
}
