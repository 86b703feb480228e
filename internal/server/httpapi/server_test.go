package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSource(list []models.Invoice) invoicesrc.Source {
	return invoicesrc.SourceFunc(func(context.Context) ([]models.Invoice, error) { return list, nil })
}

func sample() []models.Invoice {
	return []models.Invoice{
		models.NewInvoice("Pagada", decimal.RequireFromString("54.56"), models.NewDate(2020, time.August, 31).Ptr()),
		models.NewInvoice("Pendiente de pago", decimal.NewFromInt(10), nil),
	}
}

func newTestServer(t *testing.T, source invoicesrc.Source, secret string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewHTTPServer("", logging.Discard(), source, secret, time.Second).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestListInvoices_RoundTripThroughHTTPSource(t *testing.T) {
	ts := newTestServer(t, fixedSource(sample()), "http-secret")

	src := invoicesrc.NewHTTPSource(ts.URL+"/", ts.Client(), invoicesrc.NewSigner("http-secret", "test", time.Minute))
	got, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pagada", got[0].Status)
	assert.True(t, decimal.RequireFromString("54.56").Equal(got[0].Amount))
	assert.Equal(t, models.NewDate(2020, time.August, 31), *got[0].Date)
	assert.Nil(t, got[1].Date)
}

func TestListInvoices_Unauthorized(t *testing.T) {
	ts := newTestServer(t, fixedSource(sample()), "http-secret")

	resp, err := http.Get(ts.URL + "/" + invoicesrc.DefaultInvoicesPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	src := invoicesrc.NewHTTPSource(ts.URL+"/", ts.Client(), invoicesrc.NewSigner("wrong", "test", time.Minute))
	_, err = src.FetchAll(context.Background())
	require.ErrorIs(t, err, common.ErrFetch)
	assert.Equal(t, common.FetchServer, common.FetchKindOf(err))
}

func TestListInvoices_SourceFailure(t *testing.T) {
	failing := invoicesrc.SourceFunc(func(context.Context) ([]models.Invoice, error) {
		return nil, errors.New("upstream down")
	})
	ts := newTestServer(t, failing, "")

	resp, err := http.Get(ts.URL + "/" + invoicesrc.DefaultInvoicesPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, fixedSource(nil), "secret")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewHTTPServer("", logging.Discard(), fixedSource(sample()), "", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	url := "http://" + lis.Addr().String() + "/"
	require.Eventually(t, func() bool {
		got, err := invoicesrc.NewHTTPSource(url, http.DefaultClient, nil).FetchAll(context.Background())
		return err == nil && len(got) == 2
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:99999", logging.Discard(), fixedSource(nil), "", time.Second)
	require.Error(t, s.Run(context.Background()))
}
