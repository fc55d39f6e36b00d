package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finflow/internal/cli"
	"finflow/internal/core"
	"finflow/internal/schedule"
	"finflow/internal/services"
)

func addCmd() *cobra.Command {
	var (
		account      string
		amount       string
		txType       string
		category     string
		date         string
		paid         bool
		installments int
		frequency    string
		count        int
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Record income or an expense on an account",
		Long: `Record income or an expense on an account.

With --installments N the amount is split into N monthly installments, the
first one month after --date. With --frequency the full amount repeats --count
times (weekly, monthly or yearly) starting on --date.`,
		Example: `  finflow add "Groceries" --account main --amount 42.50 --category food --paid
  finflow add "Laptop" --account main --amount 1200 --installments 10
  finflow add "Salary" --account main --amount 3000 --type income --frequency monthly --count 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := cli.ParseAmount(amount)
			if err != nil {
				return err
			}
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				day, err := cli.ParseDateOrToday(date, ledger.Now())
				if err != nil {
					return err
				}
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				acc, err := findAccount(snap, account)
				if err != nil {
					return err
				}

				base := core.Transaction{
					Description:     args[0],
					Amount:          value,
					Type:            core.TransactionType(txType),
					Category:        category,
					TransactionDate: day,
					AccountID:       acc.ID,
				}
				base.SetPaid(paid)

				txns, err := ledger.CreateTransaction(ctx, services.TransactionRequest{
					Transaction:  base,
					Installments: installments,
					Frequency:    core.Frequency(frequency),
					Occurrences:  count,
				})
				if err != nil {
					return err
				}
				if len(txns) == 1 {
					success(cmd, "Recorded %s %s on %s (%s)", txns[0].Type, txns[0].Amount, acc.Name, txns[0].ID)
					return nil
				}
				success(cmd, "Recorded %d entries on %s, first on %s, last on %s",
					len(txns), acc.Name, txns[0].TransactionDate, txns[len(txns)-1].TransactionDate)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "account id or name")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 42.50")
	cmd.Flags().StringVarP(&txType, "type", "t", string(core.Expense), "income or expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id (default: other)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&paid, "paid", false, "mark as already paid")
	cmd.Flags().IntVar(&installments, "installments", 0, "split into this many monthly installments")
	cmd.Flags().StringVar(&frequency, "frequency", "", "repeat weekly, monthly or yearly")
	cmd.Flags().IntVar(&count, "count", 0, "number of occurrences for --frequency")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	cmd.MarkFlagsMutuallyExclusive("installments", "frequency")
	cmd.MarkFlagsRequiredTogether("frequency", "count")
	return cmd
}

func cardPurchaseCmd() *cobra.Command {
	var (
		card         string
		amount       string
		category     string
		date         string
		installments int
	)

	cmd := &cobra.Command{
		Use:   "card-purchase <description>",
		Short: "Record a purchase on a credit card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := cli.ParseAmount(amount)
			if err != nil {
				return err
			}
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				day, err := cli.ParseDateOrToday(date, ledger.Now())
				if err != nil {
					return err
				}
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				c, err := findCard(snap, card)
				if err != nil {
					return err
				}

				txns, err := ledger.CreateCardPurchase(ctx, services.CardPurchaseRequest{
					Purchase: core.CardTransaction{
						CardID:          c.ID,
						Amount:          value,
						TransactionDate: day,
						Description:     args[0],
						CategoryID:      category,
					},
					Installments: installments,
				})
				if err != nil {
					return err
				}
				success(cmd, "Recorded %d purchase(s) on %s", len(txns), c.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&card, "card", "", "card id or name")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 99.90")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id (default: other)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&installments, "installments", 0, "split into this many monthly installments")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func transferCmd() *cobra.Command {
	var (
		amount      string
		date        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "transfer <from> <to>",
		Short: "Move money between two accounts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := cli.ParseAmount(amount)
			if err != nil {
				return err
			}
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				day, err := cli.ParseDateOrToday(date, ledger.Now())
				if err != nil {
					return err
				}
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				from, err := findAccount(snap, args[0])
				if err != nil {
					return err
				}
				to, err := findAccount(snap, args[1])
				if err != nil {
					return err
				}

				if _, _, err := ledger.Transfer(ctx, schedule.TransferRequest{
					FromAccountID: from.ID,
					ToAccountID:   to.ID,
					Amount:        value,
					Date:          day,
					Description:   description,
				}); err != nil {
					return err
				}
				success(cmd, "Moved %s from %s to %s", value, from.Name, to.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 250.00")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&description, "desc", "", "description (default: Transfer)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func payCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "pay <transaction-id>",
		Short: "Mark a transaction as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				t, err := ledger.SetTransactionPaid(ctx, args[0], !undo)
				if err != nil {
					return err
				}
				success(cmd, "%s is now %s", t.Description, t.Status)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "mark as pending again")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				if err := ledger.DeleteTransaction(ctx, args[0]); err != nil {
					return err
				}
				success(cmd, "Transaction %s deleted", args[0])
				return nil
			})
		},
	}
}

func payInvoiceCmd() *cobra.Command {
	var (
		month string
		from  string
	)

	cmd := &cobra.Command{
		Use:   "pay-invoice <card>",
		Short: "Pay a card invoice from an account",
		Long: `Pay a card invoice from an account. A paid expense for the invoice total is
recorded on the account and the invoice is marked paid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				year, m, err := cli.ParseMonth(month, ledger.Now())
				if err != nil {
					return err
				}
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				card, err := findCard(snap, args[0])
				if err != nil {
					return err
				}
				account, err := findAccount(snap, from)
				if err != nil {
					return err
				}

				inv, payment, err := ledger.PayInvoice(ctx, card.ID, year, m, account.ID)
				if err != nil {
					return err
				}
				success(cmd, "Paid %s invoice %04d-%02d: %s from %s", card.Name, inv.ReferenceYear, inv.ReferenceMonth, payment.Amount, account.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "invoice month as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&from, "from", "", "account id or name to pay from")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List default and custom categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				reg, err := ledger.Categories(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					cli.HeaderStyle.Render("ID"),
					cli.HeaderStyle.Render("Name"),
					cli.HeaderStyle.Render("Color"),
					cli.HeaderStyle.Render("Custom"))
				for _, c := range reg.All() {
					custom := ""
					if c.IsCustom {
						custom = "yes"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Color, custom)
				}
				return w.Flush()
			})
		},
	})

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				c, err := ledger.AddCategory(ctx, args[0], color)
				if err != nil {
					return err
				}
				success(cmd, "Category %s created (%s)", c.Name, c.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&color, "color", "", "display color, e.g. #10B981")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(cmd, func(ctx context.Context, ledger *services.LedgerService) error {
				if err := ledger.RemoveCategory(ctx, args[0]); err != nil {
					return err
				}
				success(cmd, "Category %s removed", args[0])
				return nil
			})
		},
	})

	return cmd
}
