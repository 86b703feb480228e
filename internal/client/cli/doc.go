// Package cli provides the interactive invoices command-line client.
//
// NewApp wires configuration, the local SQLite cache, the configured remote
// backend and the invoice services, then App.Run loads the invoice list and
// starts a REPL that blocks until the user exits.
//
// Commands:
//   - list                 show the invoices passing the current filter
//   - filter k=v ...       set a filter (status, from, to, min, max)
//   - reset                clear the filter
//   - load                 read through the cache again
//   - refresh              force a fetch from the backend
//   - states               list the statuses present in the data
//   - status               show the last synchronisation
//   - help, exit | quit
package cli
