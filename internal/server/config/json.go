package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
	"github.com/dmitrijs2005/invoicekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Only keys
// present in the file override the defaults.
type JsonConfig struct {
	EndpointAddrGRPC *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP *string         `json:"endpoint_addr_http"`
	Backend          *string         `json:"backend"`
	SecretKey        *string         `json:"secret_key"`
	PostgresDSN      *string         `json:"database_dsn"`
	S3Region         *string         `json:"s3_region"`
	S3Endpoint       *string         `json:"s3_base_endpoint"`
	S3Bucket         *string         `json:"s3_bucket"`
	S3Key            *string         `json:"s3_key"`
	S3AccessKey      *string         `json:"s3_root_user"`
	S3SecretKey      *string         `json:"s3_root_password"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
	LogLevel         *string         `json:"log_level"`
	LogFormat        *string         `json:"log_format"`
}

// parseJson loads the file named by -c or -config into cfg. If neither flag
// is given nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	for dst, v := range map[*string]*string{
		&cfg.EndpointAddrGRPC: c.EndpointAddrGRPC,
		&cfg.EndpointAddrHTTP: c.EndpointAddrHTTP,
		&cfg.Backend:          c.Backend,
		&cfg.SecretKey:        c.SecretKey,
		&cfg.PostgresDSN:      c.PostgresDSN,
		&cfg.S3Region:         c.S3Region,
		&cfg.S3Endpoint:       c.S3Endpoint,
		&cfg.S3Bucket:         c.S3Bucket,
		&cfg.S3Key:            c.S3Key,
		&cfg.S3AccessKey:      c.S3AccessKey,
		&cfg.S3SecretKey:      c.S3SecretKey,
		&cfg.LogLevel:         c.LogLevel,
		&cfg.LogFormat:        c.LogFormat,
	} {
		if v != nil {
			*dst = *v
		}
	}
	if c.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}
