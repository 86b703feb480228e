package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/client/client"
	"github.com/dmitrijs2005/invoicekeeper/internal/client/config"
	"github.com/dmitrijs2005/invoicekeeper/internal/client/services"
	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"golang.org/x/term"
)

type App struct {
	service services.InvoiceService
	log     logging.Logger
	in      io.Reader
	out     io.Writer
	color   bool
	closers []func() error
}

// NewApp opens the local database, builds the configured backend and the
// invoice services. The caller must Close the app.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repos, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	source, sourceCloser, err := invoicesrc.NewSource(ctx, cfg.SourceOptions())
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("init backend: %w", err)
	}

	repo, err := services.NewInvoiceRepository(ctx, repos.Invoices, repos.Metadata, source, services.RepositoryOptions{
		UseMock:      cfg.UseMock,
		FetchTimeout: cfg.FetchTimeout,
		Logger:       logger,
	})
	if err != nil {
		_ = sourceCloser.Close()
		_ = repos.Close()
		return nil, err
	}

	a := newApp(services.NewInvoiceService(repo), logger, os.Stdin, os.Stdout)
	a.color = isTerminal(os.Stdout)
	a.closers = []func() error{
		func() error { repo.Close(); return nil },
		sourceCloser.Close,
		repos.Close,
	}
	return a, nil
}

func newApp(service services.InvoiceService, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{service: service, log: logger, in: in, out: out}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run performs the initial load and then serves the REPL until EOF or exit.
func (a *App) Run(ctx context.Context) {
	a.println("Invoices CLI (type 'help' for commands)")
	_ = a.Load(ctx)
	runREPL(ctx, a, a.prompt, a.in)
}

// Close releases the repository worker, the backend and the database in
// that order.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) prompt() string {
	if a.service.HasActiveFilters() {
		return "invoices (filtered)> "
	}
	return "invoices> "
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
