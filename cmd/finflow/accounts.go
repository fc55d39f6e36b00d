package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finflow/internal/balance"
	"finflow/internal/cli"
	"finflow/internal/core"
	"finflow/internal/services"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage bank, cash and investment accounts",
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(archiveAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their paid balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				if len(snap.Accounts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("No accounts found. Use 'finflow accounts add' to create one."))
					return nil
				}

				paid := balance.PaidOnly(snap.Transactions)
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					cli.HeaderStyle.Render("ID"),
					cli.HeaderStyle.Render("Name"),
					cli.HeaderStyle.Render("Type"),
					cli.HeaderStyle.Render("Balance"),
					cli.HeaderStyle.Render("Flags"))
				for _, a := range snap.Accounts {
					var flags []string
					if !a.IncludeInDashboard {
						flags = append(flags, "hidden")
					}
					if a.IsArchived {
						flags = append(flags, "archived")
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						a.ID, a.Name, a.Type,
						balance.CalculateAccountBalance(a, paid).String(),
						strings.Join(flags, ","))
				}
				return w.Flush()
			})
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		accountType string
		initial     string
		color       string
		hidden      bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opening, err := cli.ParseSignedAmount(initial)
			if err != nil {
				return err
			}
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				a, err := ledger.CreateAccount(ctx, core.Account{
					Name:               args[0],
					Type:               core.AccountType(accountType),
					Color:              color,
					InitialBalance:     opening,
					IncludeInDashboard: !hidden,
				})
				if err != nil {
					return err
				}
				success(cmd, "Account %s created (%s)", a.Name, a.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&accountType, "type", "t", string(core.Checking), "account type (checking, savings, cash, investment)")
	cmd.Flags().StringVar(&initial, "initial", "", "opening balance, e.g. 1500.00")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "leave the account out of the dashboard balance")
	return cmd
}

func archiveAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <account>",
		Short: "Archive an account, keeping its history",
		Args:  cobra.ExactArgs(1),
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
				if _, err := ledger.ArchiveAccount(ctx, account.ID); err != nil {
					return err
				}
				success(cmd, "Account %s archived", account.Name)
				return nil
			})
		},
	}
}

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage credit cards",
	}

	cmd.AddCommand(listCardsCmd())
	cmd.AddCommand(addCardCmd())

	return cmd
}

func listCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List credit cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				if len(snap.Cards) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("No cards found. Use 'finflow cards add' to create one."))
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					cli.HeaderStyle.Render("ID"),
					cli.HeaderStyle.Render("Name"),
					cli.HeaderStyle.Render("Brand"),
					cli.HeaderStyle.Render("Limit"),
					cli.HeaderStyle.Render("Closing"),
					cli.HeaderStyle.Render("Due"))
				for _, c := range snap.Cards {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
						c.ID, c.Name, c.Brand, c.LimitTotal.String(), c.ClosingDay, c.DueDay)
				}
				return w.Flush()
			})
		},
	}
}

func addCardCmd() *cobra.Command {
	var (
		brand      string
		limit      string
		closingDay int
		dueDay     int
		color      string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a credit card",
		Long: `Add a credit card. Purchases made on or after the closing day fall into the
next month's invoice; the invoice is due on the due day of its month.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := cli.ParseSignedAmount(limit)
			if err != nil {
				return err
			}
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				c, err := ledger.CreateCard(ctx, core.CreditCard{
					Name:       args[0],
					Brand:      brand,
					LimitTotal: total,
					ClosingDay: closingDay,
					DueDay:     dueDay,
					Color:      color,
				})
				if err != nil {
					return err
				}
				success(cmd, "Card %s created (%s)", c.Name, c.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "card brand, e.g. visa")
	cmd.Flags().StringVar(&limit, "limit", "", "credit limit, e.g. 5000.00")
	cmd.Flags().IntVar(&closingDay, "closing-day", 0, "day of month the invoice closes (1-31)")
	cmd.Flags().IntVar(&dueDay, "due-day", 0, "day of month the invoice is due (1-31)")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	_ = cmd.MarkFlagRequired("closing-day")
	_ = cmd.MarkFlagRequired("due-day")
	return cmd
}
