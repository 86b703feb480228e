package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]logEntry{}}
}

func (r *recordingLogger) add(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, logEntry{level: level, msg: msg, args: args})
}

func (r *recordingLogger) Debug(_ context.Context, msg string, args ...any) { r.add("debug", msg, args) }
func (r *recordingLogger) Info(_ context.Context, msg string, args ...any)  { r.add("info", msg, args) }
func (r *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { r.add("warn", msg, args) }
func (r *recordingLogger) Error(_ context.Context, msg string, args ...any) { r.add("error", msg, args) }
func (r *recordingLogger) With(...any) logging.Logger                       { return r }

func (r *recordingLogger) find(msg string) (logEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range *r.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

func argValue(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	return nil
}

func fixedSource(list []models.Invoice) invoicesrc.Source {
	return invoicesrc.SourceFunc(func(context.Context) ([]models.Invoice, error) { return list, nil })
}

func startServer(t *testing.T, s *GRPCServer) *bufconn.Listener {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return lis
}

func dial(t *testing.T, lis *bufconn.Listener, signer *invoicesrc.Signer) *invoicesrc.GRPCSource {
	t.Helper()
	src, err := invoicesrc.NewGRPCSource("passthrough:///bufnet", signer,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Discard(), fixedSource(nil), "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Discard(), fixedSource(nil), "")
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

func TestServe_ListInvoicesWithToken(t *testing.T) {
	want := []models.Invoice{
		models.NewInvoice("Pendiente de pago", decimal.RequireFromString("12.50"), models.NewDate(2024, time.March, 3).Ptr()),
	}
	lis := startServer(t, NewGRPCServer("", logging.Discard(), fixedSource(want), "server-secret"))

	got, err := dial(t, lis, invoicesrc.NewSigner("server-secret", "test", time.Minute)).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pendiente de pago", got[0].Status)
	assert.True(t, want[0].Amount.Equal(got[0].Amount))
}

func TestServe_RejectsUnsignedCaller(t *testing.T) {
	lis := startServer(t, NewGRPCServer("", logging.Discard(), fixedSource(nil), "server-secret"))

	_, err := dial(t, lis, nil).FetchAll(context.Background())
	require.ErrorIs(t, err, common.ErrFetch)
	assert.Equal(t, common.FetchServer, common.FetchKindOf(err))
}

func TestServe_ServesMockFixtures(t *testing.T) {
	mock, err := invoicesrc.NewMockSource()
	require.NoError(t, err)
	lis := startServer(t, NewGRPCServer("", logging.Discard(), mock, ""))
	src := dial(t, lis, nil)

	first, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	second, err := src.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 5)
	assert.Len(t, second, 8)
}

func TestRequestLogInterceptor_LogsRequestID(t *testing.T) {
	rec := newRecordingLogger()
	lis := startServer(t, NewGRPCServer("", rec, fixedSource(nil), ""))

	_, err := dial(t, lis, nil).FetchAll(context.Background())
	require.NoError(t, err)

	e, ok := rec.find("grpc request")
	require.True(t, ok, "successful call must be logged")
	assert.Equal(t, "info", e.level)
	assert.Equal(t, invoicesrc.ListInvoicesMethod, argValue(e.args, "method"))
	assert.NotEmpty(t, argValue(e.args, "request_id"))
	assert.Equal(t, "OK", argValue(e.args, "code"))
}

func TestRequestLogInterceptor_LogsFailures(t *testing.T) {
	rec := newRecordingLogger()
	lis := startServer(t, NewGRPCServer("", rec, fixedSource(nil), "secret"))

	_, err := dial(t, lis, nil).FetchAll(context.Background())
	require.Error(t, err)

	e, ok := rec.find("grpc request failed")
	require.True(t, ok)
	assert.Equal(t, "warn", e.level)
	assert.Equal(t, "Unauthenticated", argValue(e.args, "code"))
}
