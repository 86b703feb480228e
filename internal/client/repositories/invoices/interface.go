package invoices

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

// Repository describes the operations on the invoices table.
type Repository interface {
	// GetAll returns every cached invoice in insertion order.
	GetAll(ctx context.Context) ([]models.Invoice, error)

	// Count returns the number of cached invoices.
	Count(ctx context.Context) (int, error)

	DeleteAll(ctx context.Context) error

	// InsertAll appends invoices; ids are assigned by the table.
	InsertAll(ctx context.Context, list []models.Invoice) error
}
