// Package httpapi serves the invoice envelope over HTTP with gin, in the
// same shape the remote HTTP backend returns.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/invoicesrc"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

type HTTPServer struct {
	address         string
	source          invoicesrc.Source
	secret          []byte
	logger          logging.Logger
	router          *gin.Engine
	shutdownTimeout time.Duration
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// NewHTTPServer serves source on address. A non-empty secretKey requires a
// bearer token signed with it.
func NewHTTPServer(address string, l logging.Logger, source invoicesrc.Source, secretKey string, shutdownTimeout time.Duration) *HTTPServer {
	s := &HTTPServer{
		address:         address,
		source:          source,
		logger:          l.With("module", "http_server"),
		router:          gin.New(),
		shutdownTimeout: shutdownTimeout,
	}
	if secretKey != "" {
		s.secret = []byte(secretKey)
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/"+invoicesrc.DefaultInvoicesPath, s.authMiddleware(), s.listInvoices)
}

func (s *HTTPServer) listInvoices(c *gin.Context) {
	list, err := s.source.FetchAll(c.Request.Context())
	if err != nil {
		s.logger.Warn(c.Request.Context(), "source failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "Unavailable", "message": err.Error()})
		return
	}

	body, err := invoicesrc.EncodeInvoices(list)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Internal", "message": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *HTTPServer) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(s.secret) == 0 {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "Unauthorized",
				"message": "Authorization header is required",
			})
			return
		}
		if _, err := invoicesrc.VerifyAuthorization(header, s.secret); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "Unauthorized",
				"message": "Invalid or expired token",
			})
			return
		}
		c.Next()
	}
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader(common.RequestIDHeaderName),
			"duration", time.Since(start),
		)
	}
}

// Run listens on the configured address until ctx is done, then shuts down
// within the configured timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
