// Package server runs the invoice backend: a gRPC and an HTTP endpoint over
// one invoice Source, with graceful shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/server/config"
	"github.com/dmitrijs2005/invoicekeeper/internal/server/httpapi"

	gs "github.com/dmitrijs2005/invoicekeeper/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	source  invoicesrc.Source
	closer  io.Closer
	runners map[string]runner
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	source, closer, err := invoicesrc.NewSource(ctx, c.SourceOptions())
	if err != nil {
		return nil, fmt.Errorf("source init error: %w", err)
	}

	app := &App{config: c, logger: logger, source: source, closer: closer, runners: map[string]runner{}}
	if c.EndpointAddrGRPC != "" {
		app.runners["grpc"] = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, source, c.SecretKey)
	}
	if c.EndpointAddrHTTP != "" {
		app.runners["http"] = httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, source, c.SecretKey, c.ShutdownTimeout)
	}
	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run starts every configured endpoint and blocks until ctx is done, a
// signal arrives, or an endpoint fails. The first failure stops the rest.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "backend", app.config.Backend)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for name, r := range app.runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err.Error())
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Close releases the backend connection.
func (app *App) Close() error {
	return app.closer.Close()
}
