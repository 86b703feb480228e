package invoicesrc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const listInvoicesQuery = `SELECT status, amount, issued_on FROM invoices ORDER BY issued_on DESC NULLS LAST, id`

// PostgresSource reads invoices straight from the billing database.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens a pgx-backed pool for dsn. No connection is made
// until the first fetch.
func NewPostgresSource(dsn string) (*PostgresSource, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PostgresSource{db: db}, nil
}

// NewPostgresSourceFromDB wraps an existing handle.
func NewPostgresSourceFromDB(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) FetchAll(ctx context.Context) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, listInvoicesQuery)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	out := make([]models.Invoice, 0)
	for rows.Next() {
		var (
			st     string
			amount decimal.Decimal
			issued sql.NullTime
		)
		if err := rows.Scan(&st, &amount, &issued); err != nil {
			return nil, common.NewFetchError(common.FetchUnknown, fmt.Errorf("scan invoice: %w", err))
		}
		var d *models.Date
		if issued.Valid {
			d = models.DateOf(issued.Time).Ptr()
		}
		out = append(out, models.NewInvoice(st, amount, d))
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}
	return out, nil
}

func (s *PostgresSource) Close() error {
	return s.db.Close()
}

func mapPostgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return common.NewFetchError(common.FetchServer, err)
	}
	return common.AsFetchError(err)
}
