package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/client/client"
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "invoices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func inv(status string, amount string, d *models.Date) models.Invoice {
	return models.NewInvoice(status, decimal.RequireFromString(amount), d)
}

func day(y int, m time.Month, d int) *models.Date {
	return models.NewDate(y, m, d).Ptr()
}

func setA() []models.Invoice {
	return []models.Invoice{
		inv("Pagada", "100", day(2025, time.January, 1)),
		inv("Pendiente de pago", "200.50", day(2025, time.February, 1)),
		inv("Anulada", "300", nil),
	}
}

func setB() []models.Invoice {
	return []models.Invoice{
		inv("Cuota fija", "42", day(2025, time.April, 1)),
	}
}

func statuses(list []models.Invoice) []string {
	out := make([]string, 0, len(list))
	for _, i := range list {
		out = append(out, i.Status)
	}
	return out
}

// ---- fake source ----

type fakeSource struct {
	mu      sync.Mutex
	calls   atomic.Int32
	results [][]models.Invoice
	errs    []error
	block   chan struct{}
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]models.Invoice, error) {
	n := int(f.calls.Add(1)) - 1
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if n < len(f.errs) && f.errs[n] != nil {
		return nil, f.errs[n]
	}
	if len(f.results) == 0 {
		return []models.Invoice{}, nil
	}
	if n >= len(f.results) {
		n = len(f.results) - 1
	}
	return models.CloneAll(f.results[n]), nil
}

func networkErr() error {
	return common.NewFetchError(common.FetchNetwork, errors.New("offline"))
}

// ---- failing store ----

type failingStore struct {
	LocalStore
	getErr     error
	deleteErr  error
	replaceErr error
}

func (s *failingStore) GetAll(ctx context.Context) ([]models.Invoice, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.LocalStore.GetAll(ctx)
}

func (s *failingStore) DeleteAll(ctx context.Context) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.LocalStore.DeleteAll(ctx)
}

func (s *failingStore) ReplaceAll(ctx context.Context, list []models.Invoice) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	return s.LocalStore.ReplaceAll(ctx, list)
}
