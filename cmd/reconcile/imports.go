package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	clientapi "github.com/expense-ledger/internal/client/api"
	"github.com/expense-ledger/internal/client/cli"
	"github.com/expense-ledger/internal/client/query"
	"github.com/expense-ledger/internal/client/reconcile"
)

func importsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imports",
		Short: "Inspect statement imports",
	}

	cmd.AddCommand(listImportsCmd())
	cmd.AddCommand(showImportCmd())
	return cmd
}

func listImportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded statement imports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			imports, err := fetchImports(cmd.Context(), a)
			if err != nil {
				return fmt.Errorf("failed to list imports: %w", err)
			}

			if len(imports) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No imports yet. Use 'ledger upload' to import a statement."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("File"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Status"),
				cli.HeaderStyle.Render("Month"))
			for _, imp := range imports {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					imp.ID, imp.OriginalFileName, imp.ImportType,
					cli.FormatStatus(imp.Status), imp.PaymentMonth)
				if imp.Status == "FAILED" && imp.Error != "" {
					fmt.Fprintf(w, "\t%s\t\t\t\n", cli.ErrorStyle.Render(imp.Error))
				}
			}
			return nil
		},
	}
}

func showImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <import-id>",
		Short: "Show one import's transactions awaiting reconciliation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			importID := args[0]
			items, err := fetchImportedTransactions(cmd.Context(), a, importID)
			if err != nil {
				return fmt.Errorf("failed to list imported transactions: %w", err)
			}

			active := visibleItems(items)

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Import %s", importID)))
			if len(active) == 0 {
				fmt.Println(cli.SubtleStyle.Render("Nothing to reconcile."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Description"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Status"),
				cli.HeaderStyle.Render("Match"),
				cli.HeaderStyle.Render("Actions"))
			for _, item := range active {
				match := "-"
				if item.HasMatch() {
					match = fmt.Sprintf("%s (%s)", item.MatchingTransaction.Description, item.MatchingTransaction.ID)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					item.ID, item.Date, item.Description,
					formatValue(item.Value, item.Type),
					cli.FormatStatus(item.Status),
					match,
					formatActions(reconcile.EligibleActions(item.Status, item.HasMatch())))
			}
			return nil
		},
	}
}

// visibleItems filters soft-deleted items out of the queue view. The server
// returns them flagged so the history stays inspectable elsewhere.
func visibleItems(items []*clientapi.ImportedTransaction) []*clientapi.ImportedTransaction {
	visible := items[:0:0]
	for _, item := range items {
		if !item.Deleted {
			visible = append(visible, item)
		}
	}
	return visible
}

func fetchImports(ctx context.Context, a *app) ([]*clientapi.Import, error) {
	return query.Get(ctx, a.cache, query.ImportsKey(), func(ctx context.Context) ([]*clientapi.Import, error) {
		return a.client.ListImports(ctx)
	})
}

func fetchImportedTransactions(ctx context.Context, a *app, importID string) ([]*clientapi.ImportedTransaction, error) {
	return query.Get(ctx, a.cache, query.ImportedTransactionsKey(importID), func(ctx context.Context) ([]*clientapi.ImportedTransaction, error) {
		return a.client.ListImportedTransactions(ctx, importID)
	})
}

func formatActions(actions []reconcile.Action) string {
	parts := make([]string, len(actions))
	for i, action := range actions {
		parts[i] = strings.ToLower(string(action))
	}
	return strings.Join(parts, ", ")
}
