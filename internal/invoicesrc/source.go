// Package invoicesrc holds the backends invoices are fetched from: a simulated
// one serving embedded fixtures, and real ones over HTTP, gRPC, S3 and
// Postgres. Every backend reports failures as *common.FetchError.
package invoicesrc

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

// Source fetches the complete current invoice set.
type Source interface {
	FetchAll(ctx context.Context) ([]models.Invoice, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]models.Invoice, error)

func (f SourceFunc) FetchAll(ctx context.Context) ([]models.Invoice, error) {
	return f(ctx)
}
