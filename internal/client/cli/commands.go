package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

// Help prints the command summary.
func (a *App) Help(ctx context.Context) error {
	a.println("Available commands:")
	a.println("  (l)ist                             show invoices")
	a.println("  (f)ilter status=<s,...> from=<date> to=<date> min=<n> max=<n>")
	a.println("  reset                              clear the filter")
	a.println("  load                               reload the list")
	a.println("  (r)efresh                          fetch fresh data from the backend")
	a.println("  states                             statuses present in the data")
	a.println("  status                             last synchronisation")
	a.println("  exit | quit")
	return nil
}

// Load reads through the cache and reports an empty result.
func (a *App) Load(ctx context.Context) error {
	res, err := a.service.Load(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	if res.Empty {
		a.println("No invoices available.")
		return nil
	}
	a.printf("Loaded %d invoices.\n", res.Total)
	return nil
}

// List renders the visible invoices and, when a filter is active, how many
// of the loaded ones it keeps.
func (a *App) List(ctx context.Context) error {
	visible := a.service.Visible()
	total := len(a.service.All())

	if total == 0 {
		a.println("No invoices available.")
		return nil
	}
	if len(visible) == 0 {
		a.println("No invoices match the current filter.")
		return nil
	}
	if err := renderInvoices(a.out, visible, a.color); err != nil {
		return err
	}
	if a.service.HasActiveFilters() {
		a.printf("%d of %d invoices (filtered)\n", len(visible), total)
	} else {
		a.printf("%d invoices\n", total)
	}
	return nil
}

// Filter parses args and applies them as the new filter. An invalid filter
// is reported and the previous one stays active. Empty args print the
// current filter instead.
func (a *App) Filter(ctx context.Context, args string) error {
	if strings.TrimSpace(args) == "" {
		renderFilter(a.out, a.service.Filters())
		return nil
	}

	spec, err := parseFilterArgs(args)
	if err != nil {
		a.reportError(err)
		return err
	}
	visible, err := a.service.ApplyFilter(spec)
	if err != nil {
		a.reportError(err)
		return err
	}
	a.printf("Filter applied: %d invoices match.\n", len(visible))
	return nil
}

// Reset clears every filter criterion.
func (a *App) Reset(ctx context.Context) error {
	visible := a.service.ResetFilter()
	a.printf("Filter cleared: %d invoices.\n", len(visible))
	return nil
}

// Refresh forces a remote fetch. On failure the loaded list is kept.
func (a *App) Refresh(ctx context.Context) error {
	ok, err := a.service.Refresh(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	if ok {
		a.printf("Refreshed: %d invoices.\n", len(a.service.All()))
	}
	return nil
}

// States lists the distinct statuses with their display labels, plus the
// amount ceiling used for range filters.
func (a *App) States(ctx context.Context) error {
	states := a.service.AvailableStates()
	if len(states) == 0 {
		a.println("No invoices loaded.")
		return nil
	}
	for _, s := range states {
		a.printf("  %-20s %s\n", s, models.ClassifyState(s).Label())
	}
	a.printf("Max amount: %s\n", a.service.MaxAmount().String())
	return nil
}

// Status prints the sync summary kept in the local database.
func (a *App) Status(ctx context.Context) error {
	st, err := a.service.Status(ctx)
	if err != nil {
		a.reportError(err)
		return err
	}
	renderStatus(a.out, st)
	return nil
}

func (a *App) reportError(err error) {
	a.log.Debug(context.Background(), "command failed", "error", err)

	var fe *common.FetchError
	switch {
	case errors.As(err, &fe):
		a.println(common.UserMessage(fe.Kind, fe.Err))
	case errors.Is(err, common.ErrValidation):
		a.println("Invalid filter:", err)
	case errors.Is(err, common.ErrStorage):
		a.println("Local storage error:", err)
	default:
		a.println("Error:", err)
	}
}
