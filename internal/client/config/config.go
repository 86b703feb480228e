package config

import (
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
)

// Config holds runtime settings for the invoices CLI.
type Config struct {
	DatabasePath string
	UseMock      bool
	Backend      string
	Endpoint     string
	APISecret    string
	APIIssuer    string

	S3Region    string
	S3Endpoint  string
	S3Bucket    string
	S3Key       string
	S3AccessKey string
	S3SecretKey string

	PostgresDSN  string
	FetchTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "invoices.db"
	c.UseMock = true
	c.Backend = invoicesrc.BackendHTTP
	c.Endpoint = "https://francisco-pacheco.com/api/"
	c.APIIssuer = "invoicekeeper"
	c.S3Region = "us-east-1"
	c.S3Key = "invoices.json"
	c.FetchTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate rejects settings no backend can work with.
func (c *Config) Validate() error {
	switch c.Backend {
	case invoicesrc.BackendHTTP, invoicesrc.BackendGRPC, invoicesrc.BackendS3, invoicesrc.BackendPostgres:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout must not be negative")
	}
	if _, err := logging.New(c.LogLevel, c.LogFormat, io.Discard); err != nil {
		return err
	}
	return nil
}

// SourceOptions maps the backend settings onto invoicesrc.Options.
func (c *Config) SourceOptions() invoicesrc.Options {
	return invoicesrc.Options{
		UseMock:   c.UseMock,
		Backend:   c.Backend,
		Endpoint:  c.Endpoint,
		APISecret: c.APISecret,
		APIIssuer: c.APIIssuer,
		S3: invoicesrc.S3Options{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			Bucket:    c.S3Bucket,
			Key:       c.S3Key,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		},
		PostgresDSN: c.PostgresDSN,
		Timeout:     c.FetchTimeout,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
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
