package invoices

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

// Store is the invoices table bound to a database handle. Besides the plain
// Repository operations it offers ReplaceAll, the transactional full replace.
type Store struct {
	*SQLiteRepository
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{SQLiteRepository: NewSQLiteRepository(db), db: db}
}

// ReplaceAll deletes every row and inserts list in a single transaction. On
// failure the previous rows are kept.
func (s *Store) ReplaceAll(ctx context.Context, list []models.Invoice) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		return repo.InsertAll(ctx, list)
	})
}
