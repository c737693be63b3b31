package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	clientapi "github.com/expense-ledger/internal/client/api"
	"github.com/expense-ledger/internal/client/cli"
)

func approveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve <import-id> <transaction-id>",
		Short: "Accept an unmatched imported transaction into the ledger",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(cmd, args, func(ctx context.Context, a *app, importID, id string, data *clientapi.TransactionInput) error {
				return a.dispatcher.Approve(ctx, importID, id, data)
			}, "Approved")
		},
	}
	addEditFlags(cmd)
	return cmd
}

func mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <import-id> <transaction-id>",
		Short: "Merge a matched imported transaction into its ledger counterpart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(cmd, args, func(ctx context.Context, a *app, importID, id string, data *clientapi.TransactionInput) error {
				return a.dispatcher.Merge(ctx, importID, id, data)
			}, "Merged")
		},
	}
	addEditFlags(cmd)
	return cmd
}

func rejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <import-id> <transaction-id>",
		Short: "Reject an imported transaction with no ledger effect",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(cmd, args, func(ctx context.Context, a *app, importID, id string, _ *clientapi.TransactionInput) error {
				return a.dispatcher.Reject(ctx, importID, id)
			}, "Rejected")
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <import-id> <transaction-id>",
		Short: "Remove a resolved imported transaction from the queue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(cmd, args, func(ctx context.Context, a *app, importID, id string, _ *clientapi.TransactionInput) error {
				return a.dispatcher.Delete(ctx, importID, id)
			}, "Deleted")
		},
	}
}

func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().String("description", "", "override the transaction description")
	cmd.Flags().Int64("value", 0, "override the amount in minor units")
	cmd.Flags().String("date", "", "override the date (YYYY-MM-DD)")
	cmd.Flags().String("type", "", "override the entry type (INCOME or EXPENSE)")
	cmd.Flags().String("category", "", "set the category")
}

// editedInput builds the optional edited-fields body from flags. Nil means
// the server uses the parsed statement values unchanged.
func editedInput(cmd *cobra.Command) *clientapi.TransactionInput {
	description, _ := cmd.Flags().GetString("description")
	value, _ := cmd.Flags().GetInt64("value")
	date, _ := cmd.Flags().GetString("date")
	entryType, _ := cmd.Flags().GetString("type")
	category, _ := cmd.Flags().GetString("category")

	if description == "" && value == 0 && date == "" && entryType == "" && category == "" {
		return nil
	}
	return &clientapi.TransactionInput{
		Description: description,
		Value:       value,
		Date:        date,
		Type:        entryType,
		Category:    category,
	}
}

func runDecision(cmd *cobra.Command, args []string, decide func(ctx context.Context, a *app, importID, id string, data *clientapi.TransactionInput) error, verb string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	importID, id := args[0], args[1]
	if err := decide(cmd.Context(), a, importID, id, editedInput(cmd)); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s %s", verb, id)))
	return nil
}
