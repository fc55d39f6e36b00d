package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"finflow/internal/amqp"
	"finflow/internal/balance"
	"finflow/internal/billing"
	"finflow/internal/categories"
	"finflow/internal/core"
	"finflow/internal/dashboard"
	"finflow/internal/export"
	applog "finflow/internal/log"
	"finflow/internal/ports"
	"finflow/internal/schedule"
)

// InvoicePaymentCategory is the category of the account debit that settles an invoice.
const InvoicePaymentCategory = "bills"

var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvoiceAlreadyPaid = errors.New("invoice already paid")
	ErrSameAccount        = errors.New("transfer needs two different accounts")
	ErrArchivedAccount    = errors.New("account is archived")
	ErrAmbiguousRequest   = errors.New("a transaction cannot be both installment plan and recurrence")
	ErrInvalidOccurrences = errors.New("recurrence needs at least one occurrence")
)

// LedgerService orchestrates ledger writes against the store and derives
// every read model from a fresh snapshot. Change events are published after
// successful writes; publishing failures never fail the write.
type LedgerService struct {
	store      ports.Store
	publisher  ports.EventPublisher
	categories *categories.Service
	logger     *applog.StructuredLogger
	now        func() time.Time
	ids        schedule.IDFunc
}

type Option func(*LedgerService)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithIDs replaces the UUID generator used for new records.
func WithIDs(ids schedule.IDFunc) Option {
	return func(s *LedgerService) { s.ids = ids }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *LedgerService) { s.logger = applog.NewStructuredLogger(l) }
}

// NewLedgerService wires the service. publisher may be nil.
func NewLedgerService(store ports.Store, publisher ports.EventPublisher, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:      store,
		publisher:  publisher,
		categories: categories.NewService(store),
		now:        time.Now,
		ids:        schedule.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.NewStructuredLogger(applog.FromContext(context.Background()).WithComponent(applog.ComponentLedger))
	}
	return s
}

// Now returns the service clock.
func (s *LedgerService) Now() time.Time {
	return s.now()
}

// Snapshot loads every collection concurrently.
func (s *LedgerService) Snapshot(ctx context.Context) (export.Snapshot, error) {
	var snap export.Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Accounts, err = s.store.ListAccounts(gctx)
		return wrap("list accounts", err)
	})
	g.Go(func() (err error) {
		snap.Transactions, err = s.store.ListTransactions(gctx)
		return wrap("list transactions", err)
	})
	g.Go(func() (err error) {
		snap.Cards, err = s.store.ListCards(gctx)
		return wrap("list cards", err)
	})
	g.Go(func() (err error) {
		snap.CardTransactions, err = s.store.ListCardTransactions(gctx)
		return wrap("list card transactions", err)
	})
	g.Go(func() (err error) {
		snap.Categories, err = s.store.ListCustomCategories(gctx)
		return wrap("list categories", err)
	})
	g.Go(func() (err error) {
		snap.PaidInvoices, err = s.store.ListPaidInvoices(gctx)
		return wrap("list paid invoices", err)
	})

	if err := g.Wait(); err != nil {
		return export.Snapshot{}, err
	}
	snap.Version = export.Version
	return snap, nil
}

// Dashboard computes the summary of the given month.
func (s *LedgerService) Dashboard(ctx context.Context, year, month int) (dashboard.Summary, error) {
	if month < 1 || month > 12 {
		return dashboard.Summary{}, core.ErrInvalidMonth
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return dashboard.Summary{}, err
	}

	in := dashboard.Input{
		Transactions:     snap.Transactions,
		Accounts:         snap.Accounts,
		Cards:            snap.Cards,
		CardTransactions: snap.CardTransactions,
		PaidInvoices:     core.NewPaidInvoices(snap.PaidInvoices...),
		Categories:       categories.NewRegistry(snap.Categories),
	}
	return dashboard.BuildSummary(in, core.NewDate(year, month, 1), s.now()), nil
}

// Invoices derives all invoices of a card.
func (s *LedgerService) Invoices(ctx context.Context, cardID string) ([]core.Invoice, error) {
	card, txns, paid, err := s.cardLedger(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return billing.BuildInvoices(txns, card, s.now(), paid), nil
}

// Limit derives the limit usage of a card.
func (s *LedgerService) Limit(ctx context.Context, cardID string) (billing.Limit, error) {
	card, txns, _, err := s.cardLedger(ctx, cardID)
	if err != nil {
		return billing.Limit{}, err
	}
	return billing.CalculateAvailableLimit(card, txns), nil
}

func (s *LedgerService) cardLedger(ctx context.Context, cardID string) (core.CreditCard, []core.CardTransaction, core.PaidInvoices, error) {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return core.CreditCard{}, nil, nil, fmt.Errorf("get card: %w", err)
	}
	txns, err := s.store.ListCardTransactions(ctx)
	if err != nil {
		return core.CreditCard{}, nil, nil, fmt.Errorf("list card transactions: %w", err)
	}
	keys, err := s.store.ListPaidInvoices(ctx)
	if err != nil {
		return core.CreditCard{}, nil, nil, fmt.Errorf("list paid invoices: %w", err)
	}
	return card, txns, core.NewPaidInvoices(keys...), nil
}

// AccountBalance derives the balance of an account, optionally counting
// only settled transactions.
func (s *LedgerService) AccountBalance(ctx context.Context, accountID string, paidOnly bool) (core.Money, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return core.Money{}, fmt.Errorf("get account: %w", err)
	}
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("list transactions: %w", err)
	}
	if paidOnly {
		txns = balance.PaidOnly(txns)
	}
	return balance.CalculateAccountBalance(account, txns), nil
}

func (s *LedgerService) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if a.ID == "" {
		a.ID = s.ids()
	}
	if err := a.Validate(); err != nil {
		return core.Account{}, fmt.Errorf("validate account: %w", err)
	}
	if err := s.store.SaveAccount(ctx, a); err != nil {
		return core.Account{}, fmt.Errorf("save account: %w", err)
	}
	slog.InfoContext(ctx, "Account created", "account_id", a.ID, "type", a.Type)
	s.publish(ctx, amqp.EntityAccount, a.ID)
	return a, nil
}

// ArchiveAccount hides the account from the dashboard. Its history is kept.
func (s *LedgerService) ArchiveAccount(ctx context.Context, id string) (core.Account, error) {
	a, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	if a.IsArchived {
		return a, nil
	}
	a.IsArchived = true
	if err := s.store.SaveAccount(ctx, a); err != nil {
		return core.Account{}, fmt.Errorf("save account: %w", err)
	}
	slog.InfoContext(ctx, "Account archived", "account_id", a.ID)
	s.publish(ctx, amqp.EntityAccount, a.ID)
	return a, nil
}

func (s *LedgerService) CreateCard(ctx context.Context, c core.CreditCard) (core.CreditCard, error) {
	if c.ID == "" {
		c.ID = s.ids()
	}
	if err := c.Validate(); err != nil {
		return core.CreditCard{}, fmt.Errorf("validate card: %w", err)
	}
	if err := s.store.SaveCard(ctx, c); err != nil {
		return core.CreditCard{}, fmt.Errorf("save card: %w", err)
	}
	slog.InfoContext(ctx, "Card created", "card_id", c.ID, "closing_day", c.ClosingDay, "due_day", c.DueDay)
	s.publish(ctx, amqp.EntityCard, c.ID)
	return c, nil
}

// TransactionRequest describes a new ledger entry. Installments above one
// expands it into a monthly plan; a Frequency expands it into Occurrences
// recurring copies; otherwise it is stored as a single entry.
type TransactionRequest struct {
	Transaction  core.Transaction
	Installments int
	Frequency    core.Frequency
	Occurrences  int
}

// CreateTransaction expands and stores the request, returning what was saved.
func (s *LedgerService) CreateTransaction(ctx context.Context, req TransactionRequest) ([]core.Transaction, error) {
	base := req.Transaction
	if req.Installments > 1 && req.Frequency != "" {
		return nil, ErrAmbiguousRequest
	}
	if base.Category == "" {
		base.Category = categories.OtherID
	}
	base.SetPaid(base.IsPaid)
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.requireOpenAccount(ctx, base.AccountID); err != nil {
		return nil, err
	}

	var txns []core.Transaction
	switch {
	case req.Installments > 1:
		generated, err := schedule.GenerateInstallments(base, req.Installments, s.ids)
		if err != nil {
			return nil, fmt.Errorf("generate installments: %w", err)
		}
		txns = generated
	case req.Frequency != "":
		if req.Occurrences < 1 {
			return nil, ErrInvalidOccurrences
		}
		generated, err := schedule.GenerateRecurringTransactions(base, req.Frequency, req.Occurrences, s.ids)
		if err != nil {
			return nil, fmt.Errorf("generate recurrence: %w", err)
		}
		txns = generated
	default:
		if base.ID == "" {
			base.ID = s.ids()
		}
		txns = []core.Transaction{base}
	}

	for i, t := range txns {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("validate transaction %d: %w", i+1, err)
		}
	}
	if err := s.store.SaveTransactions(ctx, txns...); err != nil {
		return nil, fmt.Errorf("save transactions: %w", err)
	}

	s.logger.LogTransactionsCreated(ctx, base.AccountID, len(txns), base.Amount.Cents)
	s.publish(ctx, amqp.EntityTransaction, transactionIDs(txns)...)
	return txns, nil
}

// CardPurchaseRequest describes a purchase on a card, optionally in installments.
type CardPurchaseRequest struct {
	Purchase     core.CardTransaction
	Installments int
}

func (s *LedgerService) CreateCardPurchase(ctx context.Context, req CardPurchaseRequest) ([]core.CardTransaction, error) {
	base := req.Purchase
	if base.CategoryID == "" {
		base.CategoryID = categories.OtherID
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("validate card purchase: %w", err)
	}
	if _, err := s.store.GetCard(ctx, base.CardID); err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}

	var txns []core.CardTransaction
	if req.Installments > 1 {
		generated, err := schedule.GenerateCardInstallments(base, req.Installments, s.ids)
		if err != nil {
			return nil, fmt.Errorf("generate installments: %w", err)
		}
		txns = generated
	} else {
		if base.ID == "" {
			base.ID = s.ids()
		}
		txns = []core.CardTransaction{base}
	}

	ids := make([]string, len(txns))
	for i, t := range txns {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("validate installment %d: %w", i+1, err)
		}
		ids[i] = t.ID
	}
	if err := s.store.SaveCardTransactions(ctx, txns...); err != nil {
		return nil, fmt.Errorf("save card transactions: %w", err)
	}

	slog.InfoContext(ctx, "Card purchase created",
		"card_id", base.CardID,
		"count", len(txns),
		"amount_cents", base.Amount.Cents)
	s.publish(ctx, amqp.EntityCardTransaction, ids...)
	return txns, nil
}

// Transfer moves money between two open accounts.
func (s *LedgerService) Transfer(ctx context.Context, req schedule.TransferRequest) (out, in core.Transaction, err error) {
	if req.FromAccountID == req.ToAccountID {
		return out, in, ErrSameAccount
	}
	if err := req.Amount.Validate(); err != nil {
		return out, in, err
	}
	if req.Date.IsZero() {
		req.Date = core.DateOf(s.now())
	}
	if req.Description == "" {
		req.Description = "Transfer"
	}
	for _, id := range []string{req.FromAccountID, req.ToAccountID} {
		if err := s.requireOpenAccount(ctx, id); err != nil {
			return out, in, err
		}
	}

	out, in = schedule.NewTransfer(req, s.ids)
	for _, t := range []core.Transaction{out, in} {
		if err := t.Validate(); err != nil {
			return core.Transaction{}, core.Transaction{}, fmt.Errorf("validate transfer: %w", err)
		}
	}
	if err := s.store.SaveTransactions(ctx, out, in); err != nil {
		return core.Transaction{}, core.Transaction{}, fmt.Errorf("save transfer: %w", err)
	}

	slog.InfoContext(ctx, "Transfer created",
		"from", req.FromAccountID,
		"to", req.ToAccountID,
		"amount_cents", req.Amount.Cents)
	s.publish(ctx, amqp.EntityTransaction, out.ID, in.ID)
	return out, in, nil
}

// SetTransactionPaid settles or reopens a transaction.
func (s *LedgerService) SetTransactionPaid(ctx context.Context, id string, paid bool) (core.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if t.IsPaid == paid && t.Status == core.StatusFor(paid) {
		return t, nil
	}
	t.SetPaid(paid)
	if err := s.store.SaveTransactions(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction status changed", "transaction_id", t.ID, "status", t.Status)
	s.publish(ctx, amqp.EntityTransaction, t.ID)
	return t, nil
}

// DeleteTransaction removes a single ledger entry.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	s.publish(ctx, amqp.EntityTransaction, id)
	return nil
}

// PayInvoice settles an invoice from an account: a paid expense for the
// invoice total is recorded on the account and the invoice key is marked
// paid. The card transactions themselves are left untouched.
func (s *LedgerService) PayInvoice(ctx context.Context, cardID string, year, month int, fromAccountID string) (core.Invoice, core.Transaction, error) {
	card, txns, paid, err := s.cardLedger(ctx, cardID)
	if err != nil {
		return core.Invoice{}, core.Transaction{}, err
	}
	inv, ok := billing.FindInvoice(billing.BuildInvoices(txns, card, s.now(), paid), year, month)
	if !ok {
		return core.Invoice{}, core.Transaction{}, fmt.Errorf("%w: %s %04d-%02d", ErrInvoiceNotFound, cardID, year, month)
	}
	if inv.Status == core.InvoicePaid {
		return inv, core.Transaction{}, ErrInvoiceAlreadyPaid
	}
	if err := s.requireOpenAccount(ctx, fromAccountID); err != nil {
		return core.Invoice{}, core.Transaction{}, err
	}

	payment := core.Transaction{
		ID:              s.ids(),
		Description:     fmt.Sprintf("Invoice %s %02d/%d", card.Name, month, year),
		Amount:          inv.Total,
		Type:            core.Expense,
		Category:        InvoicePaymentCategory,
		TransactionDate: core.DateOf(s.now()),
		AccountID:       fromAccountID,
	}
	payment.SetPaid(true)
	if err := payment.Validate(); err != nil {
		return core.Invoice{}, core.Transaction{}, fmt.Errorf("validate payment: %w", err)
	}
	if err := s.store.RecordInvoicePayment(ctx, inv.Key(), payment); err != nil {
		return core.Invoice{}, core.Transaction{}, fmt.Errorf("record invoice payment: %w", err)
	}

	inv.Status = core.InvoicePaid
	s.logger.LogInvoicePaid(ctx, cardID, year, month, inv.Total.Cents)
	s.publish(ctx, amqp.EntityInvoice, invoiceRef(inv.Key()))
	s.publish(ctx, amqp.EntityTransaction, payment.ID)
	return inv, payment, nil
}

func (s *LedgerService) Categories(ctx context.Context) (*categories.Registry, error) {
	return s.categories.Registry(ctx)
}

func (s *LedgerService) AddCategory(ctx context.Context, name, color string) (core.Category, error) {
	c, err := s.categories.Add(ctx, name, color)
	if err != nil {
		return core.Category{}, err
	}
	s.publish(ctx, amqp.EntityCategory, c.ID)
	return c, nil
}

func (s *LedgerService) RemoveCategory(ctx context.Context, id string) error {
	if err := s.categories.Remove(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EntityCategory, id)
	return nil
}

// ExportSnapshot returns every stored record stamped with the export time.
func (s *LedgerService) ExportSnapshot(ctx context.Context) (export.Snapshot, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return export.Snapshot{}, err
	}
	snap.ExportedAt = s.now().UTC()
	slog.InfoContext(ctx, "Snapshot exported", "counts", snap.Counts())
	return snap, nil
}

// ImportSnapshot stores every record of snap, replacing records with the
// same id. Records are written in dependency order.
func (s *LedgerService) ImportSnapshot(ctx context.Context, snap export.Snapshot) error {
	for _, a := range snap.Accounts {
		if err := s.store.SaveAccount(ctx, a); err != nil {
			return fmt.Errorf("import account %s: %w", a.ID, err)
		}
	}
	for _, c := range snap.Cards {
		if err := s.store.SaveCard(ctx, c); err != nil {
			return fmt.Errorf("import card %s: %w", c.ID, err)
		}
	}
	for _, c := range snap.Categories {
		c.IsCustom = true
		if err := s.store.SaveCustomCategory(ctx, c); err != nil {
			return fmt.Errorf("import category %s: %w", c.ID, err)
		}
	}
	if len(snap.Transactions) > 0 {
		if err := s.store.SaveTransactions(ctx, snap.Transactions...); err != nil {
			return fmt.Errorf("import transactions: %w", err)
		}
	}
	if len(snap.CardTransactions) > 0 {
		if err := s.store.SaveCardTransactions(ctx, snap.CardTransactions...); err != nil {
			return fmt.Errorf("import card transactions: %w", err)
		}
	}
	for _, k := range snap.PaidInvoices {
		if err := s.store.MarkInvoicePaid(ctx, k); err != nil {
			return fmt.Errorf("import paid invoice: %w", err)
		}
	}

	slog.InfoContext(ctx, "Snapshot imported", "counts", snap.Counts())
	s.publish(ctx, amqp.EntitySnapshot)
	return nil
}

func (s *LedgerService) requireOpenAccount(ctx context.Context, id string) error {
	a, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	if a.IsArchived {
		return fmt.Errorf("%w: %s", ErrArchivedAccount, id)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, entity string, ids ...string) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not available, skipping ledger change", "entity", entity)
		return
	}
	if err := s.publisher.PublishLedgerChanged(ctx, entity, ids); err != nil {
		s.logger.LogError(ctx, "Failed to publish ledger change", err, applog.OpPublish,
			applog.NewFields().WithCount(len(ids)))
	}
}

func transactionIDs(txns []core.Transaction) []string {
	ids := make([]string, len(txns))
	for i, t := range txns {
		ids[i] = t.ID
	}
	return ids
}

func invoiceRef(k core.InvoiceKey) string {
	return fmt.Sprintf("%s:%04d-%02d", k.CardID, k.Year, k.Month)
}

func wrap(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
