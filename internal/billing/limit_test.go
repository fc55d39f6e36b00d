package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finflow/internal/core"
)

func TestCalculateAvailableLimit(t *testing.T) {
	txns := []core.CardTransaction{
		cardTxn("past", core.NewDate(2025, 10, 20), 10000),
		cardTxn("jan", core.NewDate(2026, 1, 4), 20000),
		cardTxn("feb", core.NewDate(2026, 1, 5), 30000),
		cardTxn("future", core.NewDate(2026, 6, 1), 15000),
	}

	limit := CalculateAvailableLimit(testCard(), txns)

	assert.Equal(t, int64(500000), limit.Total.Cents)
	assert.Equal(t, int64(75000), limit.Used.Cents)
	assert.Equal(t, int64(425000), limit.Available.Cents)
	assert.InDelta(t, 15.0, limit.PercentUsed, 1e-9)
	assert.False(t, limit.OverLimit())

	require.Len(t, limit.UpcomingInvoices, 4)
	assert.Equal(t, InvoiceTotal{Month: 11, Year: 2025, Total: core.Cents(10000)}, limit.UpcomingInvoices[0])
	assert.Equal(t, InvoiceTotal{Month: 1, Year: 2026, Total: core.Cents(20000)}, limit.UpcomingInvoices[1])
	assert.Equal(t, InvoiceTotal{Month: 2, Year: 2026, Total: core.Cents(30000)}, limit.UpcomingInvoices[2])
	assert.Equal(t, InvoiceTotal{Month: 6, Year: 2026, Total: core.Cents(15000)}, limit.UpcomingInvoices[3])
}

func TestCalculateAvailableLimit_OverLimitIsNotClamped(t *testing.T) {
	card := testCard()
	card.LimitTotal = core.Cents(1000)
	limit := CalculateAvailableLimit(card, []core.CardTransaction{cardTxn("a", core.NewDate(2026, 1, 1), 1500)})

	assert.Equal(t, int64(-500), limit.Available.Cents)
	assert.True(t, limit.OverLimit())
	assert.InDelta(t, 150.0, limit.PercentUsed, 1e-9)
}

func TestCalculateAvailableLimit_ZeroLimit(t *testing.T) {
	card := testCard()
	card.LimitTotal = core.Money{}
	limit := CalculateAvailableLimit(card, nil)

	assert.Zero(t, limit.PercentUsed)
	assert.Zero(t, limit.Used.Cents)
	assert.Empty(t, limit.UpcomingInvoices)
}
