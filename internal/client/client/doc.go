// Package client bootstraps the local persistence used by invoicekeeper.
//
// InitDatabase opens the SQLite cache file, applies the embedded goose
// migrations (see internal/client/migrations) and returns the Repositories
// bundle: the invoices Store and the metadata key-value Repository.
//
//	repos, err := client.InitDatabase(ctx, "invoices.db")
//	if err != nil {
//	    return err
//	}
//	defer repos.Close()
package client
