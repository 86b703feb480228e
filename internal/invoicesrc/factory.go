package invoicesrc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Backend names accepted by NewSource.
const (
	BackendHTTP     = "http"
	BackendGRPC     = "grpc"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	UseMock     bool
	Backend     string
	Endpoint    string
	APISecret   string
	APIIssuer   string
	S3          S3Options
	PostgresDSN string
	Timeout     time.Duration
}

// NewSource builds the configured backend. The returned closer releases any
// connection the backend holds and is never nil.
func NewSource(ctx context.Context, o Options) (Source, io.Closer, error) {
	if o.UseMock {
		m, err := NewMockSource()
		return m, nopCloser{}, err
	}

	signer := NewSigner(o.APISecret, o.APIIssuer, time.Minute)

	switch o.Backend {
	case BackendHTTP, "":
		if o.Endpoint == "" {
			return nil, nil, fmt.Errorf("http backend: endpoint is required")
		}
		client := &http.Client{Timeout: o.Timeout}
		return NewHTTPSource(o.Endpoint, client, signer), nopCloser{}, nil
	case BackendGRPC:
		if o.Endpoint == "" {
			return nil, nil, fmt.Errorf("grpc backend: endpoint is required")
		}
		s, err := NewGRPCSource(o.Endpoint, signer)
		if err != nil {
			return nil, nil, fmt.Errorf("grpc backend: %w", err)
		}
		return s, s, nil
	case BackendS3:
		if o.S3.Bucket == "" || o.S3.Key == "" {
			return nil, nil, fmt.Errorf("s3 backend: bucket and key are required")
		}
		client, err := NewS3Client(ctx, o.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("s3 backend: %w", err)
		}
		return NewS3Source(client, o.S3.Bucket, o.S3.Key), nopCloser{}, nil
	case BackendPostgres:
		if o.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("postgres backend: dsn is required")
		}
		s, err := NewPostgresSource(o.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres backend: %w", err)
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", o.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
