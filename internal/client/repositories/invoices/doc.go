// Package invoices is the local cache of invoices.
//
// The cache is one SQLite table, invoices(id, amount, status, date), where
// date holds days since the Unix epoch and NULL means the date is unknown.
// Rows get auto-assigned ids and are only ever written as a whole set:
// Store.ReplaceAll deletes every row and inserts the new set in one
// transaction, so a reader sees either the old set or the new one.
//
// SQLiteRepository binds the table operations to a dbx.DBTX, which lets the
// same code run against *sql.DB or inside a transaction:
//
//	store := invoices.NewStore(db)
//	_ = store.ReplaceAll(ctx, fetched)
//	list, _ := store.GetAll(ctx)
package invoices
