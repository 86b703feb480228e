// Package config handles configuration for the invoice backend server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
)

// BackendMock serves the embedded fixture rotation.
const BackendMock = "mock"

// Config holds runtime settings for the invoice backend server.
//
// Fields:
//   - EndpointAddrGRPC / EndpointAddrHTTP: bind addresses; an empty value
//     disables that endpoint.
//   - Backend: where served invoices come from (mock, postgres or s3).
//   - SecretKey: HMAC secret callers must sign bearer tokens with. Empty
//     disables the check.
//   - ShutdownTimeout: grace period for in-flight HTTP requests.
type Config struct {
	EndpointAddrGRPC string
	EndpointAddrHTTP string
	Backend          string
	SecretKey        string

	PostgresDSN string

	S3Region    string
	S3Endpoint  string
	S3Bucket    string
	S3Key       string
	S3AccessKey string
	S3SecretKey string

	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the defaults serve fixtures without authentication.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.Backend = BackendMock
	c.S3Region = "us-east-1"
	c.S3Key = "invoices.json"
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMock, invoicesrc.BackendPostgres, invoicesrc.BackendS3:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.EndpointAddrGRPC == "" && c.EndpointAddrHTTP == "" {
		return fmt.Errorf("at least one of the gRPC and HTTP addresses is required")
	}
	if _, err := logging.New(c.LogLevel, c.LogFormat, io.Discard); err != nil {
		return err
	}
	return nil
}

// SourceOptions maps the backend settings onto invoicesrc.Options.
func (c *Config) SourceOptions() invoicesrc.Options {
	return invoicesrc.Options{
		UseMock: c.Backend == BackendMock,
		Backend: c.Backend,
		S3: invoicesrc.S3Options{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			Bucket:    c.S3Bucket,
			Key:       c.S3Key,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		},
		PostgresDSN: c.PostgresDSN,
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags. args
// excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
