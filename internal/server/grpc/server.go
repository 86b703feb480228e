// Package grpc exposes an invoice Source as the invoices.v1.InvoiceService
// gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address  string
	invoices invoicesrc.InvoiceServer
	logger   logging.Logger
}

// NewGRPCServer serves source on address. Callers must present a bearer
// token signed with secretKey unless it is empty.
func NewGRPCServer(address string, l logging.Logger, source invoicesrc.Source, secretKey string) *GRPCServer {
	var secret []byte
	if secretKey != "" {
		secret = []byte(secretKey)
	}
	return &GRPCServer{
		address:  address,
		invoices: invoicesrc.NewSourceServer(source, secret),
		logger:   l.With("module", "grpc_server"),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor))
	invoicesrc.RegisterInvoiceServer(srv, s.invoices)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
