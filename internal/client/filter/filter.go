// Package filter narrows an in-memory invoice list by status, date range and
// amount range. Apply is pure: it never mutates its input and never fails.
package filter

import (
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/shopspring/decimal"
)

// Spec describes which invoices stay visible. Zero values mean "no
// restriction": an empty States set, nil dates and nil amounts. All bounds
// are inclusive.
type Spec struct {
	States    map[string]struct{}
	StartDate *models.Date
	EndDate   *models.Date
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// WithStates returns a copy of s restricted to the given raw statuses.
func (s Spec) WithStates(states ...string) Spec {
	set := make(map[string]struct{}, len(states))
	for _, st := range states {
		set[st] = struct{}{}
	}
	s.States = set
	return s
}

// HasDateBounds reports whether either date bound is set.
func (s Spec) HasDateBounds() bool {
	return s.StartDate != nil || s.EndDate != nil
}

// IsEmpty reports whether s lets every invoice through.
func (s Spec) IsEmpty() bool {
	return len(s.States) == 0 && !s.HasDateBounds() && s.MinAmount == nil && s.MaxAmount == nil
}

// Validate rejects a spec whose start date is after its end date, or whose
// minimum amount is above its maximum. Invalid specs are never corrected.
func (s Spec) Validate() error {
	if !ValidRange(s.StartDate, s.EndDate) {
		return common.NewValidationError("date range", "start date is after end date")
	}
	if s.MinAmount != nil && s.MaxAmount != nil && s.MinAmount.GreaterThan(*s.MaxAmount) {
		return common.NewValidationError("amount range", "minimum is above maximum")
	}
	return nil
}

// Apply returns the invoices that satisfy every criterion in spec, in their
// original order. The result is never nil.
func Apply(invoices []models.Invoice, spec Spec) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if Match(inv, spec) {
			out = append(out, inv.Clone())
		}
	}
	return out
}

// Match reports whether a single invoice passes spec.
func Match(inv models.Invoice, spec Spec) bool {
	return matchState(inv, spec) && matchDate(inv, spec) && matchAmount(inv, spec)
}

func matchState(inv models.Invoice, spec Spec) bool {
	if len(spec.States) == 0 {
		return true
	}
	_, ok := spec.States[inv.Status]
	return ok
}

// A dateless invoice only passes when no date bound is set.
func matchDate(inv models.Invoice, spec Spec) bool {
	if inv.Date == nil {
		return !spec.HasDateBounds()
	}
	return WithinBounds(inv.Date, spec.StartDate, spec.EndDate)
}

func matchAmount(inv models.Invoice, spec Spec) bool {
	if spec.MinAmount != nil && inv.Amount.LessThan(*spec.MinAmount) {
		return false
	}
	if spec.MaxAmount != nil && inv.Amount.GreaterThan(*spec.MaxAmount) {
		return false
	}
	return true
}

// ValidRange reports whether start is not after end. Missing bounds never
// make a range invalid.
func ValidRange(start, end *models.Date) bool {
	if start == nil || end == nil {
		return true
	}
	return !start.After(*end)
}

// WithinBounds reports whether date lies within [lo, hi]. A nil date or a
// nil bound imposes no restriction.
func WithinBounds(date, lo, hi *models.Date) bool {
	if date == nil {
		return true
	}
	if lo != nil && date.Before(*lo) {
		return false
	}
	if hi != nil && date.After(*hi) {
		return false
	}
	return true
}
