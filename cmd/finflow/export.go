package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finflow/internal/export"
	"finflow/internal/services"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every record as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				snap, err := ledger.ExportSnapshot(ctx)
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					return export.Encode(cmd.OutOrStdout(), snap)
				}
				if err := export.WriteFile(out, snap); err != nil {
					return err
				}
				success(cmd, "Snapshot written to %s", out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON snapshot, replacing records with the same id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(args[0])
			if err != nil {
				return err
			}
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				if err := ledger.ImportSnapshot(ctx, snap); err != nil {
					return err
				}
				counts := snap.Counts()
				success(cmd, "Imported %d accounts, %d transactions, %d cards, %d card transactions",
					counts["accounts"], counts["transactions"], counts["cards"], counts["card_transactions"])
				return nil
			})
		},
	}
}

func readSnapshot(path string) (export.Snapshot, error) {
	if path == "-" {
		return export.Decode(os.Stdin)
	}
	snap, err := export.ReadFile(path)
	if err != nil {
		return export.Snapshot{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return snap, nil
}
