package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a recording stub.
type execIface interface {
	List(ctx context.Context) error
	Filter(ctx context.Context, args string) error
	Reset(ctx context.Context) error
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	States(ctx context.Context) error
	Status(ctx context.Context) error
	Help(ctx context.Context) error
	println(args ...any)
	printf(format string, args ...any)
}

// runREPL is the read-eval-print loop of the invoices CLI.
//
// It prints the prompt from promptFn, reads one line from in, takes the first
// token as the command (case-insensitive) and hands the rest of the line to
// the handler. Unknown commands are reported back to the user.
//
// Commands
//
//	help | h | ?       show available commands
//	list | l           print the visible invoices
//	filter | f ARGS    apply a filter, e.g. "filter status=Pagada,Anulada from=2024-01-01 max=100";
//	                   with no ARGS, print the active filter
//	reset              drop the active filter
//	load               read invoices (cache first, remote when empty or in mock mode)
//	refresh | r        force a fetch from the remote source
//	states             list the statuses present in the loaded invoices
//	status             show backend mode and the last successful sync
//	exit | quit        leave the program
//
// Errors returned by handlers are ignored here; each handler prints its own
// user-facing message. The loop ends on EOF, exit/quit, or when ctx is done.
func runREPL(ctx context.Context, a execIface, promptFn func() string, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return
		}
		a.printf("%s", promptFn())
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")

		switch strings.ToLower(cmd) {
		case "help", "h", "?":
			_ = a.Help(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "f", "filter":
			_ = a.Filter(ctx, rest)
		case "reset":
			_ = a.Reset(ctx)
		case "load":
			_ = a.Load(ctx)
		case "r", "refresh":
			_ = a.Refresh(ctx)
		case "states":
			_ = a.States(ctx)
		case "status":
			_ = a.Status(ctx)
		case "exit", "quit":
			a.println("Bye!")
			return
		default:
			a.println("Unknown command:", cmd)
		}
	}
}
