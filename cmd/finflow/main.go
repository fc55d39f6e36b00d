package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"finflow/internal/cli"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "finflow",
		Short: "Personal finance ledger",
		Long: `finflow tracks accounts, transactions and credit cards, and derives
invoices, card limits, account balances and a monthly dashboard from them.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			cli.LoadEnvFile()
		},
	}

	root.AddCommand(dashboardCmd())
	root.AddCommand(invoicesCmd())
	root.AddCommand(limitCmd())
	root.AddCommand(balanceCmd())
	root.AddCommand(accountsCmd())
	root.AddCommand(cardsCmd())
	root.AddCommand(addCmd())
	root.AddCommand(cardPurchaseCmd())
	root.AddCommand(transferCmd())
	root.AddCommand(payCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(payInvoiceCmd())
	root.AddCommand(categoriesCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())

	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}
