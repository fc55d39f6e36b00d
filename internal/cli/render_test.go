package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"finflow/internal/billing"
	"finflow/internal/core"
	"finflow/internal/dashboard"
)

func TestRenderSummary(t *testing.T) {
	inv := core.Invoice{CardID: "visa", ReferenceYear: 2024, ReferenceMonth: 3, Total: core.Cents(4000), Status: core.InvoiceClosed}
	s := dashboard.Summary{
		Year:             2024,
		Month:            3,
		TotalIncome:      core.Cents(300000),
		TotalExpense:     core.Cents(10000),
		CurrentBalance:   core.Cents(100000),
		ProjectedBalance: core.Cents(400000),
		CreditCardDebt:   core.Cents(4000),
		NextTransactions: []core.Transaction{{
			ID: "salary-1", Description: "Salary", Amount: core.Cents(300000), Type: core.Income,
			TransactionDate: core.NewDate(2024, 3, 28),
		}},
		CategoryDistribution: []dashboard.CategorySlice{{CategoryID: "food", Name: "Food", Value: core.Cents(10000), Percent: 100}},
		CardSummaries: []dashboard.CardSummary{{
			Card:    core.CreditCard{ID: "visa", Name: "Visa"},
			Invoice: &inv,
			Limit:   billing.Limit{Available: core.Cents(496000)},
		}},
	}

	var buf bytes.Buffer
	if err := RenderSummary(&buf, s); err != nil {
		t.Fatalf("RenderSummary() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Dashboard 2024-03", "3000.00", "4000.00", "Salary", "2024-03-28", "Food", "Visa", "40.00", "4960.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderInvoices(t *testing.T) {
	card := core.CreditCard{ID: "visa", Name: "Visa"}

	var empty bytes.Buffer
	if err := RenderInvoices(&empty, card, nil); err != nil {
		t.Fatalf("RenderInvoices() error = %v", err)
	}
	if !strings.Contains(empty.String(), "No invoices") {
		t.Errorf("empty output = %q", empty.String())
	}

	var buf bytes.Buffer
	invoices := []core.Invoice{{
		CardID: "visa", ReferenceYear: 2024, ReferenceMonth: 3,
		ClosingDate: core.NewDate(2024, 2, 5), DueDate: core.NewDate(2024, 3, 12),
		Total: core.Cents(5000), Status: core.InvoiceOverdue,
	}}
	if err := RenderInvoices(&buf, card, invoices); err != nil {
		t.Fatalf("RenderInvoices() error = %v", err)
	}
	for _, want := range []string{"2024-03", "2024-02-05", "2024-03-12", "50.00", "overdue"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRenderLimit_OverLimit(t *testing.T) {
	var buf bytes.Buffer
	l := billing.Limit{
		Total:            core.Cents(10000),
		Used:             core.Cents(12000),
		Available:        core.Cents(-2000),
		PercentUsed:      120,
		UpcomingInvoices: []billing.InvoiceTotal{{Year: 2024, Month: 4, Total: core.Cents(12000)}},
	}
	if err := RenderLimit(&buf, core.CreditCard{Name: "Visa"}, l); err != nil {
		t.Fatalf("RenderLimit() error = %v", err)
	}
	for _, want := range []string{"Limit of Visa", "-20.00", "120.0%", "over limit", "2024-04"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC)

	y, m, err := ParseMonth("", now)
	if err != nil || y != 2024 || m != 7 {
		t.Errorf("ParseMonth(\"\") = %d, %d, %v", y, m, err)
	}
	y, m, err = ParseMonth("2023-12", now)
	if err != nil || y != 2023 || m != 12 {
		t.Errorf("ParseMonth(2023-12) = %d, %d, %v", y, m, err)
	}
	if _, _, err := ParseMonth("2023-13", now); err == nil {
		t.Error("ParseMonth(2023-13) should fail")
	}
}

func TestParseDateOrToday(t *testing.T) {
	now := time.Date(2024, 7, 9, 22, 0, 0, 0, time.UTC)

	d, err := ParseDateOrToday("", now)
	if err != nil || d != core.NewDate(2024, 7, 9) {
		t.Errorf("ParseDateOrToday(\"\") = %v, %v", d, err)
	}
	d, err = ParseDateOrToday("2024-02-29", now)
	if err != nil || d != core.NewDate(2024, 2, 29) {
		t.Errorf("ParseDateOrToday(2024-02-29) = %v, %v", d, err)
	}
	if _, err := ParseDateOrToday("29/02/2024", now); err == nil {
		t.Error("ParseDateOrToday should reject other layouts")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,345", 1235, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got.Cents != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got.Cents, tt.want)
		}
	}

	m, err := ParseSignedAmount("-10.50")
	if err != nil || m.Cents != -1050 {
		t.Errorf("ParseSignedAmount(-10.50) = %v, %v", m, err)
	}
	m, err = ParseSignedAmount("")
	if err != nil || !m.IsZero() {
		t.Errorf("ParseSignedAmount(\"\") = %v, %v", m, err)
	}
}
