package models

import "strings"

// InvoiceState is the normalized status of an invoice. Filtering works on
// the raw status text; InvoiceState exists for presentation.
type InvoiceState int

const (
	StateUnknown InvoiceState = iota
	StatePending
	StatePaid
	StateCancelled
	StateFixedFee
	StatePaymentPlan
)

var stateServerText = map[InvoiceState]string{
	StatePending:     "Pendiente de pago",
	StatePaid:        "Pagada",
	StateCancelled:   "Anulada",
	StateFixedFee:    "Cuota fija",
	StatePaymentPlan: "Plan de pago",
}

var stateLabels = map[InvoiceState]string{
	StatePending:     "Pending payment",
	StatePaid:        "Paid",
	StateCancelled:   "Cancelled",
	StateFixedFee:    "Fixed fee",
	StatePaymentPlan: "Payment plan",
	StateUnknown:     "Status",
}

// KnownStates lists the classified states in display order.
var KnownStates = []InvoiceState{StatePaid, StateCancelled, StateFixedFee, StatePending, StatePaymentPlan}

// ClassifyState maps raw server text to an InvoiceState, ignoring case.
// Unrecognised or empty text is StateUnknown.
func ClassifyState(text string) InvoiceState {
	if text == "" {
		return StateUnknown
	}
	for state, server := range stateServerText {
		if strings.EqualFold(server, text) {
			return state
		}
	}
	return StateUnknown
}

// ServerText is the status text the server uses for s.
func (s InvoiceState) ServerText() string {
	return stateServerText[s]
}

func (s InvoiceState) Label() string {
	return stateLabels[s]
}

// Alert reports whether s should be highlighted to the user.
func (s InvoiceState) Alert() bool {
	return s == StatePending || s == StateCancelled
}

func (s InvoiceState) String() string {
	return s.Label()
}
