package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"finflow/internal/cli"
	"finflow/internal/services"
)

func dashboardCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the monthly dashboard",
		Long: `Show income, expenses, current and projected balance, overdue and upcoming
transactions, the expense split by category and the state of every card.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				year, m, err := cli.ParseMonth(month, ledger.Now())
				if err != nil {
					return err
				}
				summary, err := ledger.Dashboard(ctx, year, m)
				if err != nil {
					return err
				}
				return cli.RenderSummary(cmd.OutOrStdout(), summary)
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM (default: current month)")
	return cmd
}

func invoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoices <card>",
		Short: "List the invoices of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				card, err := findCard(snap, args[0])
				if err != nil {
					return err
				}
				invoices, err := ledger.Invoices(ctx, card.ID)
				if err != nil {
					return err
				}
				return cli.RenderInvoices(cmd.OutOrStdout(), card, invoices)
			})
		},
	}
}

func limitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limit <card>",
		Short: "Show used and available limit of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				card, err := findCard(snap, args[0])
				if err != nil {
					return err
				}
				limit, err := ledger.Limit(ctx, card.ID)
				if err != nil {
					return err
				}
				return cli.RenderLimit(cmd.OutOrStdout(), card, limit)
			})
		},
	}
}

func balanceCmd() *cobra.Command {
	var includePending bool

	cmd := &cobra.Command{
		Use:   "balance <account>",
		Short: "Show the balance of an account",
		Long: `Show the balance of an account: the initial balance plus paid income minus
paid expenses. With --all pending transactions are counted too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				account, err := findAccount(snap, args[0])
				if err != nil {
					return err
				}
				bal, err := ledger.AccountBalance(ctx, account.ID, !includePending)
				if err != nil {
					return err
				}
				scope := "paid only"
				if includePending {
					scope = "including pending"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					cli.TitleStyle.Render(account.Name),
					bal.String(),
					cli.SubtleStyle.Render("("+scope+")"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&includePending, "all", false, "include pending transactions")
	return cmd
}
