package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_RoundTripEpochDays(t *testing.T) {
	d := NewDate(2025, time.January, 1)
	assert.Equal(t, int64(20089), d.EpochDays())
	assert.Equal(t, d, DateFromEpochDays(d.EpochDays()))
	assert.Equal(t, "2025-01-01", d.String())

	before := NewDate(1969, time.December, 31)
	assert.Equal(t, int64(-1), before.EpochDays())
	assert.Equal(t, "1969-12-31", before.String())
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2025, time.March, 1, 2, 0, 0, 0, loc)
	assert.Equal(t, NewDate(2025, time.March, 1), DateOf(ts))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.February, 1), d)

	d, err = ParseDate("07/02/2019")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2019, time.February, 7), d)

	_, err = ParseDate("Feb 7 2019")
	require.Error(t, err)

	opt, err := ParseOptionalDate("  ")
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2025, time.January, 1)
	b := NewDate(2025, time.January, 2)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
}

func TestInvoice_CloneDoesNotShareDate(t *testing.T) {
	d := NewDate(2025, time.January, 1)
	orig := NewInvoice("Pagada", decimal.NewFromInt(100), &d)

	cp := orig.Clone()
	*cp.Date = NewDate(2030, time.January, 1)

	assert.Equal(t, NewDate(2025, time.January, 1), *orig.Date)
	assert.NotNil(t, CloneAll(nil))
	assert.Empty(t, CloneAll(nil))
}

func TestClassifyState(t *testing.T) {
	tests := map[string]InvoiceState{
		"Pendiente de pago": StatePending,
		"pagada":            StatePaid,
		"ANULADA":           StateCancelled,
		"Cuota fija":        StateFixedFee,
		"Plan de pago":      StatePaymentPlan,
		"":                  StateUnknown,
		"Reembolsada":       StateUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, ClassifyState(in), "input %q", in)
	}
}

func TestInvoiceState_Presentation(t *testing.T) {
	assert.True(t, StatePending.Alert())
	assert.True(t, StateCancelled.Alert())
	assert.False(t, StatePaid.Alert())
	assert.False(t, StateUnknown.Alert())

	assert.Equal(t, "Pagada", StatePaid.ServerText())
	assert.Equal(t, "", StateUnknown.ServerText())
	assert.Equal(t, "Payment plan", StatePaymentPlan.Label())

	inv := Invoice{Status: "Pendiente de pago"}
	assert.Equal(t, StatePending, inv.State())
	assert.False(t, inv.HasDate())
}
