package invoicesrc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/shopspring/decimal"
)

// envelope is the JSON document every backend serves.
type envelope struct {
	Count    int           `json:"numFacturas"`
	Invoices []wireInvoice `json:"facturas"`
}

type wireInvoice struct {
	Status string          `json:"descEstado"`
	Amount decimal.Decimal `json:"importeOrdenacion"`
	Date   *string         `json:"fecha"`
}

// outEnvelope mirrors envelope for encoding. The amount is a bare JSON
// number; decimal.Decimal on its own would quote it.
type outEnvelope struct {
	Count    int          `json:"numFacturas"`
	Invoices []outInvoice `json:"facturas"`
}

type outInvoice struct {
	Status string      `json:"descEstado"`
	Amount json.Number `json:"importeOrdenacion"`
	Date   *string     `json:"fecha"`
}

// DecodeInvoices parses an invoice envelope. A missing, null or empty date
// yields an invoice without a date; an unparseable one is an error.
func DecodeInvoices(r io.Reader) ([]models.Invoice, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return env.toModels()
}

// DecodeInvoicesBytes is DecodeInvoices over an in-memory document.
func DecodeInvoicesBytes(b []byte) ([]models.Invoice, error) {
	return DecodeInvoices(bytes.NewReader(b))
}

func (e envelope) toModels() ([]models.Invoice, error) {
	out := make([]models.Invoice, 0, len(e.Invoices))
	for i, w := range e.Invoices {
		var raw string
		if w.Date != nil {
			raw = *w.Date
		}
		d, err := models.ParseOptionalDate(raw)
		if err != nil {
			return nil, fmt.Errorf("decode invoices: invoice %d: %w", i, err)
		}
		out = append(out, models.NewInvoice(w.Status, w.Amount, d))
	}
	return out, nil
}

// EncodeInvoices renders invoices in the wire envelope. Dates use the
// dd/MM/yyyy form the backend emits and amounts are plain numbers.
func EncodeInvoices(list []models.Invoice) ([]byte, error) {
	env := outEnvelope{Count: len(list), Invoices: make([]outInvoice, 0, len(list))}
	for _, inv := range list {
		w := outInvoice{Status: inv.Status, Amount: json.Number(inv.Amount.String())}
		if inv.Date != nil {
			s := inv.Date.Time().Format("02/01/2006")
			w.Date = &s
		}
		env.Invoices = append(env.Invoices, w)
	}
	return json.Marshal(env)
}
