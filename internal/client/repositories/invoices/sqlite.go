package invoices

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/shopspring/decimal"
)

// SQLiteRepository implements Repository over a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, amount, status, date FROM invoices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select invoices: %w", err)
	}
	defer rows.Close()

	result := make([]models.Invoice, 0)
	for rows.Next() {
		var (
			item   models.Invoice
			amount float64
			days   sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &amount, &item.Status, &days); err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		item.Amount = decimal.NewFromFloat(amount)
		if days.Valid {
			item.Date = models.DateFromEpochDays(days.Int64).Ptr()
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM invoices`); err != nil {
		return fmt.Errorf("failed to delete invoices: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertAll(ctx context.Context, list []models.Invoice) error {
	const query = `INSERT INTO invoices (amount, status, date) VALUES (?, ?, ?)`
	for i, inv := range list {
		var days sql.NullInt64
		if inv.Date != nil {
			days = sql.NullInt64{Int64: inv.Date.EpochDays(), Valid: true}
		}
		if _, err := r.db.ExecContext(ctx, query, inv.Amount.InexactFloat64(), inv.Status, days); err != nil {
			return fmt.Errorf("failed to insert invoice %d: %w", i, err)
		}
	}
	return nil
}
