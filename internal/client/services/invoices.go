package services

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/invoicekeeper/internal/client/filter"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/shopspring/decimal"
)

// InvoiceService keeps the loaded invoice list and the active filter for
// one screen of the application.
type InvoiceService interface {
	// Load reads through the repository. On failure the previously loaded
	// list is kept.
	Load(ctx context.Context) (LoadResult, error)
	// Refresh forces a fetch and, on success, reloads from the cache.
	Refresh(ctx context.Context) (bool, error)
	ApplyFilter(spec filter.Spec) ([]models.Invoice, error)
	ResetFilter() []models.Invoice
	Filters() filter.Spec
	HasActiveFilters() bool
	Visible() []models.Invoice
	All() []models.Invoice
	AvailableStates() []string
	MaxAmount() decimal.Decimal
	Status(ctx context.Context) (SyncStatus, error)
}

// LoadResult describes a successful load.
type LoadResult struct {
	Total   int
	Visible int
	Empty   bool
}

type invoiceService struct {
	repo InvoiceRepository

	mu   sync.RWMutex
	all  []models.Invoice
	spec filter.Spec
}

// NewInvoiceService starts with an empty list and no filter.
func NewInvoiceService(repo InvoiceRepository) InvoiceService {
	return &invoiceService{repo: repo, all: []models.Invoice{}}
}

func (s *invoiceService) Load(ctx context.Context) (LoadResult, error) {
	list, err := s.repo.Read(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	return s.replace(list), nil
}

// Refresh re-reads the cache only after ForceRefresh succeeded, so the
// visible list always matches what was stored.
func (s *invoiceService) Refresh(ctx context.Context) (bool, error) {
	ok, err := s.repo.ForceRefresh(ctx)
	if err != nil || !ok {
		return false, err
	}
	list, err := s.repo.Cached(ctx)
	if err != nil {
		return false, err
	}
	s.replace(list)
	return true, nil
}

func (s *invoiceService) replace(list []models.Invoice) LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = models.CloneAll(list)
	visible := len(filter.Apply(s.all, s.spec))
	return LoadResult{Total: len(s.all), Visible: visible, Empty: len(s.all) == 0}
}

// ApplyFilter validates spec and makes it current. An invalid spec is
// rejected and the previous one stays active.
func (s *invoiceService) ApplyFilter(spec filter.Spec) ([]models.Invoice, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = spec
	return filter.Apply(s.all, s.spec), nil
}

func (s *invoiceService) ResetFilter() []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = filter.Spec{}
	return filter.Apply(s.all, s.spec)
}

func (s *invoiceService) Filters() filter.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec
}

func (s *invoiceService) HasActiveFilters() bool {
	return !s.Filters().IsEmpty()
}

// Visible applies the current filter to a snapshot of the loaded list.
func (s *invoiceService) Visible() []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.all, s.spec)
}

func (s *invoiceService) All() []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneAll(s.all)
}

// AvailableStates lists the distinct raw statuses of the loaded invoices,
// sorted.
func (s *invoiceService) AvailableStates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, inv := range s.all {
		if _, ok := seen[inv.Status]; ok {
			continue
		}
		seen[inv.Status] = struct{}{}
		out = append(out, inv.Status)
	}
	sort.Strings(out)
	return out
}

// MaxAmount is the largest loaded amount rounded up to a whole unit, or
// zero when nothing is loaded.
func (s *invoiceService) MaxAmount() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	maxAmount := decimal.Zero
	for _, inv := range s.all {
		if inv.Amount.GreaterThan(maxAmount) {
			maxAmount = inv.Amount
		}
	}
	return maxAmount.Ceil()
}

func (s *invoiceService) Status(ctx context.Context) (SyncStatus, error) {
	return s.repo.Status(ctx)
}
