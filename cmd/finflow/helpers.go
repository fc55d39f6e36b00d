package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"finflow/internal/cli"
	"finflow/internal/core"
	"finflow/internal/export"
	applog "finflow/internal/log"
	"finflow/internal/services"
)

// withLedger opens the configured backend for the duration of fn.
func withLedger(cmd *cobra.Command, fn func(ctx context.Context, ledger *services.LedgerService) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	logger := cli.SetupLogger(cfg, applog.ComponentCLI, os.Stderr)
	ctx = applog.NewContext(ctx, logger)

	res, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			slog.WarnContext(ctx, "Failed to close backend", "error", err)
		}
	}()

	ledger := services.NewLedgerService(res.Store, res.Publisher, services.WithLogger(logger))
	return fn(ctx, ledger)
}

// findAccount matches ref against account ids first, then names ignoring case.
func findAccount(snap export.Snapshot, ref string) (core.Account, error) {
	for _, a := range snap.Accounts {
		if a.ID == ref {
			return a, nil
		}
	}
	for _, a := range snap.Accounts {
		if strings.EqualFold(a.Name, ref) {
			return a, nil
		}
	}
	return core.Account{}, fmt.Errorf("account %q not found", ref)
}

// findCard matches ref against card ids first, then names ignoring case.
func findCard(snap export.Snapshot, ref string) (core.CreditCard, error) {
	for _, c := range snap.Cards {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range snap.Cards {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return core.CreditCard{}, fmt.Errorf("card %q not found", ref)
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(format, args...)))
}
