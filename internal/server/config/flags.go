package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address (e.g., ":8080")
//	-b string   backend: mock, postgres or s3
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-w", "-b", "-d", "-s", "-e", "-l"})

	fs := flag.NewFlagSet("invoices-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&cfg.EndpointAddrHTTP, "w", cfg.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend: mock, postgres or s3")
	fs.StringVar(&cfg.PostgresDSN, "d", cfg.PostgresDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "S3 base endpoint")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
