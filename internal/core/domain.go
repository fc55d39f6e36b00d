package core

import (
	"errors"
	"strings"
)

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	StatusPaid    TransactionStatus = "paid"
	StatusPending TransactionStatus = "pending"
)

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Cash       AccountType = "cash"
	Investment AccountType = "investment"
)

const (
	InvoiceOpen    InvoiceStatus = "open"
	InvoiceClosed  InvoiceStatus = "closed"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

// Kinds of ledger entries. A transaction is exactly one of them.
const (
	KindSingle      TransactionKind = "single"
	KindInstallment TransactionKind = "installment"
	KindRecurrence  TransactionKind = "recurrence"
)

type (
	Frequency         string
	TransactionType   string
	TransactionStatus string
	AccountType       string
	InvoiceStatus     string
	TransactionKind   string

	Category struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Color    string `json:"color,omitempty"`
		IsCustom bool   `json:"isCustom,omitempty"`
	}

	// Account never stores its current balance; see balance.CalculateAccountBalance.
	Account struct {
		ID                 string      `json:"id"`
		Name               string      `json:"name"`
		Type               AccountType `json:"type"`
		Color              string      `json:"color,omitempty"`
		InitialBalance     Money       `json:"initialBalance"`
		IncludeInDashboard bool        `json:"includeInDashboard"`
		IsArchived         bool        `json:"isArchived"`
	}

	// Transaction is a non-card ledger entry.
	Transaction struct {
		ID                 string            `json:"id"`
		Description        string            `json:"description"`
		Amount             Money             `json:"amount"`
		Type               TransactionType   `json:"type"`
		Category           string            `json:"category"`
		TransactionDate    Date              `json:"transactionDate"`
		AccountID          string            `json:"accountId"`
		IsPaid             bool              `json:"isPaid"`
		Status             TransactionStatus `json:"status"`
		IsRecurring        bool              `json:"isRecurring"`
		RecurrenceID       string            `json:"recurrenceId,omitempty"`
		Frequency          Frequency         `json:"frequency,omitempty"`
		IsInstallment      bool              `json:"isInstallment"`
		InstallmentGroupID string            `json:"installmentGroupId,omitempty"`
		InstallmentNumber  int               `json:"installmentNumber,omitempty"`
		TotalInstallments  int               `json:"totalInstallments,omitempty"`
		IsTransfer         bool              `json:"isTransfer,omitempty"`
	}

	CreditCard struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Brand      string `json:"brand"`
		LimitTotal Money  `json:"limitTotal"`
		ClosingDay int    `json:"closingDay"`
		DueDay     int    `json:"dueDay"`
		Color      string `json:"color,omitempty"`
	}

	// CardTransaction belongs to exactly one invoice, which is computed, never stored.
	CardTransaction struct {
		ID                 string `json:"id"`
		CardID             string `json:"cardId"`
		Amount             Money  `json:"amount"`
		TransactionDate    Date   `json:"transactionDate"`
		Description        string `json:"description"`
		CategoryID         string `json:"categoryId"`
		IsInstallment      bool   `json:"isInstallment"`
		InstallmentGroupID string `json:"installmentGroupId,omitempty"`
		InstallmentNumber  int    `json:"installmentNumber,omitempty"`
		TotalInstallments  int    `json:"totalInstallments,omitempty"`
	}

	// Invoice is fully derived from card transactions and never persisted.
	Invoice struct {
		CardID         string            `json:"cardId"`
		ReferenceMonth int               `json:"referenceMonth"`
		ReferenceYear  int               `json:"referenceYear"`
		Status         InvoiceStatus     `json:"status"`
		Transactions   []CardTransaction `json:"transactions"`
		Total          Money             `json:"total"`
		ClosingDate    Date              `json:"closingDate"`
		DueDate        Date              `json:"dueDate"`
	}

	// InvoiceKey identifies one monthly invoice of one card.
	InvoiceKey struct {
		CardID string `json:"cardId"`
		Year   int    `json:"year"`
		Month  int    `json:"month"`
	}
)

var (
	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyName           = errors.New("empty name")
	ErrEmptyAccount        = errors.New("empty account id")
	ErrEmptyCard           = errors.New("empty card id")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidAccountType  = errors.New("invalid account type")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidInstallment  = errors.New("invalid installment number")
	ErrAmountTooSmall      = errors.New("amount smaller than one cent per installment")
	ErrAmbiguousKind       = errors.New("transaction is both installment and recurrence")
	ErrStatusOutOfSync     = errors.New("status does not match isPaid")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrInvalidClosingDay   = errors.New("closing day must be between 1 and 31")
	ErrInvalidDueDay       = errors.New("due day must be between 1 and 31")
	ErrInvalidCreditLimit  = errors.New("credit limit cannot be negative")
	ErrInvalidInvoiceMonth = errors.New("invoice month must be between 1 and 12")
)

// PaidInvoices records which invoices were explicitly marked as paid.
// The zero value is an empty set; a nil set reports nothing as paid.
type PaidInvoices map[InvoiceKey]struct{}

// NewPaidInvoices builds a set from keys.
func NewPaidInvoices(keys ...InvoiceKey) PaidInvoices {
	p := make(PaidInvoices, len(keys))
	for _, k := range keys {
		p[k] = struct{}{}
	}
	return p
}

// Contains reports whether the invoice identified by key is paid.
func (p PaidInvoices) Contains(key InvoiceKey) bool {
	_, ok := p[key]
	return ok
}

// Key returns the identity of the invoice.
func (i Invoice) Key() InvoiceKey {
	return InvoiceKey{CardID: i.CardID, Year: i.ReferenceYear, Month: i.ReferenceMonth}
}

func (k InvoiceKey) Validate() error {
	if strings.TrimSpace(k.CardID) == "" {
		return ErrEmptyCard
	}
	if k.Month < 1 || k.Month > 12 {
		return ErrInvalidInvoiceMonth
	}
	return nil
}

func (f Frequency) IsValid() bool {
	switch f {
	case Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Cash, Investment:
		return true
	default:
		return false
	}
}

// StatusFor maps the paid flag to its status value.
func StatusFor(paid bool) TransactionStatus {
	if paid {
		return StatusPaid
	}
	return StatusPending
}

// SetPaid updates IsPaid and Status together.
func (t *Transaction) SetPaid(paid bool) {
	t.IsPaid = paid
	t.Status = StatusFor(paid)
}

// IsPending reports whether the transaction still has to be settled.
func (t Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// Signed returns the amount as it affects an account balance.
func (t Transaction) Signed() Money {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Kind classifies the entry as single, installment member or recurrence member.
func (t Transaction) Kind() TransactionKind {
	switch {
	case t.IsInstallment:
		return KindInstallment
	case t.IsRecurring:
		return KindRecurrence
	default:
		return KindSingle
	}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return ErrInvalidClosingDay
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if c.LimitTotal.Cents < 0 {
		return ErrInvalidCreditLimit
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.TransactionDate.Validate(); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccount
	}
	if t.Status != StatusFor(t.IsPaid) {
		return ErrStatusOutOfSync
	}
	if t.IsInstallment && t.IsRecurring {
		return ErrAmbiguousKind
	}
	if t.IsInstallment {
		if err := validateInstallment(t.InstallmentNumber, t.TotalInstallments); err != nil {
			return err
		}
	}
	if t.IsRecurring && !t.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	return nil
}

func (t CardTransaction) Validate() error {
	if err := t.TransactionDate.Validate(); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.CardID) == "" {
		return ErrEmptyCard
	}
	if t.IsInstallment {
		return validateInstallment(t.InstallmentNumber, t.TotalInstallments)
	}
	return nil
}

func validateDescription(desc string) error {
	if len(strings.TrimSpace(desc)) == 0 {
		return ErrEmptyDescription
	}
	if len(desc) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func validateInstallment(number, total int) error {
	if total < 1 || number < 1 || number > total {
		return ErrInvalidInstallment
	}
	return nil
}
