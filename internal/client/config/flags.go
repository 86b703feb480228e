package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
)

var knownFlags = []string{"-d", "-m", "-b", "-a", "-t", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string   local database file
//	-m bool     use the simulated backend (write -m=false to disable)
//	-b string   backend: http, grpc, s3 or postgres
//	-a string   backend endpoint (HTTP base URL or gRPC host:port)
//	-t int      fetch timeout in seconds
//	-l string   log level
//
// Arguments not listed above are ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("invoices", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.BoolVar(&cfg.UseMock, "m", cfg.UseMock, "use the simulated backend")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend: http, grpc, s3 or postgres")
	fs.StringVar(&cfg.Endpoint, "a", cfg.Endpoint, "backend endpoint")
	timeout := fs.Int("t", int(cfg.FetchTimeout.Seconds()), "fetch timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.FetchTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
