package invoicesrc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEnvelope = `{"numFacturas":2,"facturas":[
	{"descEstado":"Pagada","importeOrdenacion":12.5,"fecha":"01/02/2024"},
	{"descEstado":"Pendiente de pago","importeOrdenacion":3,"fecha":null}]}`

func TestHTTPSource_Success(t *testing.T) {
	secret := []byte("s3cr3t")
	var gotPath, gotAuth, gotRequestID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(common.RequestIDHeaderName)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEnvelope))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/api/", srv.Client(), NewSigner(string(secret), "test", time.Minute))
	got, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pagada", got[0].Status)
	assert.Nil(t, got[1].Date)

	assert.Equal(t, "/api/invoices.json", gotPath)
	assert.NotEmpty(t, gotRequestID)
	claims, err := VerifyAuthorization(gotAuth, secret)
	require.NoError(t, err)
	assert.Equal(t, "test", claims.Issuer)
}

func TestHTTPSource_NoSignerSendsNoAuthorization(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"facturas":[]}`))
	}))
	defer srv.Close()

	got, err := NewHTTPSource(srv.URL, nil, nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, hasAuth)
}

func TestHTTPSource_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    common.FetchKind
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			want:    common.FetchServer,
		},
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
			want:    common.FetchServer,
		},
		{
			name:    "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) },
			want:    common.FetchUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, srv.Client(), nil).FetchAll(context.Background())
			require.ErrorIs(t, err, common.ErrFetch)
			assert.Equal(t, tt.want, common.FetchKindOf(err))
		})
	}
}

func TestHTTPSource_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(url, nil, nil).FetchAll(context.Background())
	require.ErrorIs(t, err, common.ErrFetch)
	assert.Equal(t, common.FetchNetwork, common.FetchKindOf(err))
}

func TestHTTPSource_TimeoutIsServerKind(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPSource(srv.URL, srv.Client(), nil).FetchAll(ctx)
	require.ErrorIs(t, err, common.ErrFetch)
	assert.Equal(t, common.FetchServer, common.FetchKindOf(err))
}
