package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "invoices.db", c.DatabasePath)
	assert.True(t, c.UseMock)
	assert.Equal(t, invoicesrc.BackendHTTP, c.Backend)
	assert.Equal(t, 10*time.Second, c.FetchTimeout)
	assert.Equal(t, "info", c.LogLevel)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-d", "/tmp/x.db", "-m=false", "-b", "grpc", "-a", "localhost:50051", "-t", "3", "-l", "debug"},
			mutate: func(c *Config) {
				c.DatabasePath = "/tmp/x.db"
				c.UseMock = false
				c.Backend = "grpc"
				c.Endpoint = "localhost:50051"
				c.FetchTimeout = 3 * time.Second
				c.LogLevel = "debug"
			},
		},
		{
			name:   "unknown flags are ignored",
			args:   []string{"-x", "1", "-b", "s3", "--verbose"},
			mutate: func(c *Config) { c.Backend = "s3" },
		},
		{
			name:    "bad timeout",
			args:    []string{"-t", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaults()
			err := parseFlags(got, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.mutate(want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestParseJson_OverlaysOnlyNamedKeys(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"use_mock":      false,
		"backend":       "postgres",
		"postgres_dsn":  "postgres://u:p@db:5432/billing",
		"fetch_timeout": "1500ms",
		"log_format":    "json",
	})

	cfg := defaults()
	require.NoError(t, parseJson(cfg, []string{"-config", path}))

	want := defaults()
	want.UseMock = false
	want.Backend = "postgres"
	want.PostgresDSN = "postgres://u:p@db:5432/billing"
	want.FetchTimeout = 1500 * time.Millisecond
	want.LogFormat = "json"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseJson_NoFileNoChange(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseJson(cfg, []string{"-b", "grpc"}))
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseJson_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
	require.Error(t, parseJson(defaults(), []string{"-c", bad}))

	require.Error(t, parseJson(defaults(), []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))
}

func TestLoadConfig_FlagsBeatJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"backend":       "s3",
		"s3_bucket":     "billing",
		"fetch_timeout": "1500ms",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-b", "http"})
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Backend)
	assert.Equal(t, "billing", cfg.S3Bucket)
	assert.Equal(t, 1500*time.Millisecond, cfg.FetchTimeout, "absent -t keeps the JSON value")
}

func TestLoadConfig_Validation(t *testing.T) {
	_, err := LoadConfig([]string{"-b", "ftp"})
	require.ErrorContains(t, err, "unknown backend")

	path := writeTempJSON(t, map[string]any{"log_format": "xml"})
	_, err = LoadConfig([]string{"-c", path})
	require.Error(t, err)
}

func TestSourceOptions(t *testing.T) {
	c := defaults()
	c.UseMock = false
	c.Backend = "s3"
	c.S3Bucket = "b"
	c.S3AccessKey = "ak"

	o := c.SourceOptions()
	assert.False(t, o.UseMock)
	assert.Equal(t, "s3", o.Backend)
	assert.Equal(t, "b", o.S3.Bucket)
	assert.Equal(t, "ak", o.S3.AccessKey)
	assert.Equal(t, "invoices.json", o.S3.Key)
	assert.Equal(t, 10*time.Second, o.Timeout)
}
