// Package models defines the client-side invoice data model.
package models

import (
	"github.com/shopspring/decimal"
)

// Invoice is a billing record as served by the remote source and cached
// locally. Amount is passed through unvalidated; a nil Date means the date is
// unknown.
type Invoice struct {
	// ID is the row id assigned by the local store. It is zero for invoices
	// that have not been stored yet.
	ID int64

	// Status is the raw server-provided status text.
	Status string

	Amount decimal.Decimal
	Date   *Date
}

// NewInvoice is a convenience constructor used by sources and tests.
func NewInvoice(status string, amount decimal.Decimal, date *Date) Invoice {
	return Invoice{Status: status, Amount: amount, Date: date}
}

// State classifies the raw status.
func (i Invoice) State() InvoiceState {
	return ClassifyState(i.Status)
}

// HasDate reports whether the invoice carries a known date.
func (i Invoice) HasDate() bool {
	return i.Date != nil
}

// Clone returns a copy that shares no memory with i.
func (i Invoice) Clone() Invoice {
	out := i
	if i.Date != nil {
		d := *i.Date
		out.Date = &d
	}
	return out
}

// CloneAll deep-copies a list. The result is never nil.
func CloneAll(list []Invoice) []Invoice {
	out := make([]Invoice, len(list))
	for i, inv := range list {
		out[i] = inv.Clone()
	}
	return out
}
