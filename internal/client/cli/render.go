package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/invoicekeeper/internal/client/filter"
	"github.com/dmitrijs2005/invoicekeeper/internal/client/services"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

func formatDate(d *models.Date) string {
	if d == nil {
		return "-"
	}
	return d.Time().Format("02 Jan 2006")
}

func formatState(inv models.Invoice, color bool) string {
	st := inv.State()
	label := st.Label()
	if st == models.StateUnknown {
		label = inv.Status
	}
	if !color {
		return label
	}
	switch {
	case st.Alert():
		return ansiRed + label + ansiReset
	case st == models.StatePaid:
		return ansiGreen + label + ansiReset
	default:
		return label
	}
}

// renderInvoices writes an aligned table. Alert states are coloured red
// when color is set.
func renderInvoices(w io.Writer, list []models.Invoice, color bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tAMOUNT\t\tSTATUS\t")
	for _, inv := range list {
		fmt.Fprintf(tw, "%s\t%s\t€\t%s\t\n", formatDate(inv.Date), inv.Amount.StringFixed(2), formatState(inv, color))
	}
	return tw.Flush()
}

func renderFilter(w io.Writer, spec filter.Spec) {
	if spec.IsEmpty() {
		fmt.Fprintln(w, "No filter active.")
		return
	}
	if len(spec.States) > 0 {
		states := make([]string, 0, len(spec.States))
		for s := range spec.States {
			states = append(states, s)
		}
		sort.Strings(states)
		fmt.Fprintf(w, "  status: %s\n", strings.Join(states, ", "))
	}
	if spec.StartDate != nil {
		fmt.Fprintf(w, "  from:   %s\n", spec.StartDate)
	}
	if spec.EndDate != nil {
		fmt.Fprintf(w, "  to:     %s\n", spec.EndDate)
	}
	if spec.MinAmount != nil {
		fmt.Fprintf(w, "  min:    %s\n", spec.MinAmount.String())
	}
	if spec.MaxAmount != nil {
		fmt.Fprintf(w, "  max:    %s\n", spec.MaxAmount.String())
	}
}

func renderStatus(w io.Writer, st services.SyncStatus) {
	mode := "live"
	if st.MockMode {
		mode = "simulated"
	}
	fmt.Fprintf(w, "Backend mode: %s\n", mode)
	if st.LastSyncAt.IsZero() {
		fmt.Fprintln(w, "Last sync:    never")
	} else {
		fmt.Fprintf(w, "Last sync:    %s (%d invoices)\n", st.LastSyncAt.Local().Format("2006-01-02 15:04:05"), st.Count)
	}
	fmt.Fprintf(w, "Cached:       %d invoices\n", st.Stored)
	if d := st.Digest; d != "" {
		if len(d) > 16 {
			d = d[:16]
		}
		fmt.Fprintf(w, "Digest:       %s\n", d)
	}
}
