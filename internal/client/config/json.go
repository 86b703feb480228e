package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
	"github.com/dmitrijs2005/invoicekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value so a file only overrides
// what it names.
type JsonConfig struct {
	DatabasePath *string         `json:"database_path"`
	UseMock      *bool           `json:"use_mock"`
	Backend      *string         `json:"backend"`
	Endpoint     *string         `json:"endpoint"`
	APISecret    *string         `json:"api_secret"`
	APIIssuer    *string         `json:"api_issuer"`
	S3Region     *string         `json:"s3_region"`
	S3Endpoint   *string         `json:"s3_endpoint"`
	S3Bucket     *string         `json:"s3_bucket"`
	S3Key        *string         `json:"s3_key"`
	S3AccessKey  *string         `json:"s3_access_key"`
	S3SecretKey  *string         `json:"s3_secret_key"`
	PostgresDSN  *string         `json:"postgres_dsn"`
	FetchTimeout *timex.Duration `json:"fetch_timeout"`
	LogLevel     *string         `json:"log_level"`
	LogFormat    *string         `json:"log_format"`
}

// parseJson overlays cfg with the JSON file named by -c or -config in args.
// Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	if jc.UseMock != nil {
		cfg.UseMock = *jc.UseMock
	}
	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.Endpoint, jc.Endpoint)
	setString(&cfg.APISecret, jc.APISecret)
	setString(&cfg.APIIssuer, jc.APIIssuer)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Key, jc.S3Key)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.PostgresDSN, jc.PostgresDSN)
	if jc.FetchTimeout != nil {
		cfg.FetchTimeout = jc.FetchTimeout.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
