package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/expense-ledger/internal/client/cli"
	"github.com/expense-ledger/internal/client/upload"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <statement.csv>",
		Short: "Upload a bank or card statement for import",
		Long: `Upload a statement file and register it for server-side processing.

The file is first pushed to object storage, then registered as an import.
Watch its processing status with 'ledger imports list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			importType, _ := cmd.Flags().GetString("type")
			lastFour, _ := cmd.Flags().GetString("last-four")
			month, _ := cmd.Flags().GetString("month")

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read statement file: %w", err)
			}

			lastPct := -1
			imported, err := a.uploader.Run(cmd.Context(), &upload.Request{
				FileName:       filepath.Base(args[0]),
				Content:        content,
				ImportType:     strings.ToUpper(importType),
				LastFourDigits: lastFour,
				PaymentMonth:   month,
				Progress: func(pct float64) {
					step := int(pct) / 10 * 10
					if step > lastPct {
						lastPct = step
						fmt.Printf("\rUploading... %3d%%", step)
					}
				},
			})
			if err != nil {
				fmt.Println()
				return err
			}

			fmt.Println()
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Import %s registered (%s)", imported.ID, imported.Status)))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "OTHER", "statement type (VISA, MASTERCARD, AMEX, OTHER)")
	cmd.Flags().String("last-four", "", "last four digits of the card")
	cmd.Flags().StringP("month", "m", "", "payment month (YYYY-MM)")
	return cmd
}
