// Package config loads runtime configuration for the invoices CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   local SQLite database file
//	-m bool     use the simulated backend
//	-b string   backend: http, grpc, s3 or postgres
//	-a string   backend endpoint
//	-t int      fetch timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or integer
// nanoseconds. Every key is optional:
//
//	{
//	  "database_path": "invoices.db",
//	  "use_mock": false,
//	  "backend": "s3",
//	  "s3_region": "eu-west-1",
//	  "s3_endpoint": "http://localhost:9000",
//	  "s3_bucket": "billing",
//	  "s3_key": "exports/invoices.json",
//	  "fetch_timeout": "5s",
//	  "log_format": "json"
//	}
//
// Secrets (api_secret, s3_secret_key, postgres_dsn) are only read from the
// JSON file so they stay out of the process list.
package config
