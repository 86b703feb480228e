package invoicesrc

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// MockSource is the simulated backend. Each FetchAll returns the next
// fixture in a fixed cycle (all unpaid, some paid, all paid), so consecutive
// reads observe a changing dataset.
type MockSource struct {
	mu     sync.Mutex
	bodies [][]byte
	next   int
}

// NewMockSource loads the embedded fixtures in file-name order.
func NewMockSource() (*MockSource, error) {
	return NewMockSourceFS(fixtures, "fixtures")
}

// NewMockSourceFS serves every *.json file in dir of fsys, sorted by name.
func NewMockSourceFS(fsys fs.FS, dir string) (*MockSource, error) {
	names, err := fs.Glob(fsys, dir+"/*.json")
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no fixtures in %s", dir)
	}
	sort.Strings(names)

	m := &MockSource{bodies: make([][]byte, 0, len(names))}
	for _, n := range names {
		b, err := fs.ReadFile(fsys, n)
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", n, err)
		}
		m.bodies = append(m.bodies, b)
	}
	return m, nil
}

// FetchAll decodes the current fixture and advances the cycle.
func (m *MockSource) FetchAll(ctx context.Context) ([]models.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.AsFetchError(err)
	}

	m.mu.Lock()
	body := m.bodies[m.next]
	m.next = (m.next + 1) % len(m.bodies)
	m.mu.Unlock()

	list, err := DecodeInvoicesBytes(body)
	if err != nil {
		return nil, common.NewFetchError(common.FetchUnknown, err)
	}
	return list, nil
}
