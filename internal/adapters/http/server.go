// Package http - HTTP Server configuration and lifecycle management.
//
// Server manages the HTTP server's lifecycle:
// - Graceful startup
// - Graceful shutdown
// - Timeout configuration
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// ============================================
// Server Configuration
// ============================================

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Host to listen on (e.g., "0.0.0.0", "localhost")
	Host string
	// Port to listen on
	Port string
	// ReadTimeout is the max time to read a request
	ReadTimeout time.Duration
	// WriteTimeout is the max time to write a response
	WriteTimeout time.Duration
	// IdleTimeout is the max time to wait for the next request
	IdleTimeout time.Duration
	// ShutdownTimeout bounds the graceful shutdown
	ShutdownTimeout time.Duration
	// Logger for server logging
	Logger *slog.Logger
}

// DefaultServerConfig returns the default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "0.0.0.0",
		Port:            "8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		Logger:          slog.Default(),
	}
}

// Address returns the listen address.
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// ============================================
// Server
// ============================================

// Server is an HTTP server with graceful shutdown.
type Server struct {
	config     *ServerConfig
	httpServer *http.Server
	router     *gin.Engine
}

// NewServer creates a new HTTP server.
func NewServer(config *ServerConfig, router *gin.Engine) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	httpServer := &http.Server{
		Addr:         config.Address(),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		httpServer: httpServer,
		router:     router,
	}
}

// Start starts the server.
func (s *Server) Start() error {
	s.config.Logger.Info("Starting HTTP server",
		slog.String("address", s.config.Address()),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// StartTLS starts an HTTPS server.
func (s *Server) StartTLS(certFile, keyFile string) error {
	s.config.Logger.Info("Starting HTTPS server",
		slog.String("address", s.config.Address()),
	)

	if err := s.httpServer.ListenAndServeTLS(certFile, keyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown performs a graceful server shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	s.config.Logger.Info("Shutting down HTTP server...")

	// Bound the shutdown with its own timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.config.Logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		return err
	}

	s.config.Logger.Info("HTTP server stopped gracefully")
	return nil
}

// ============================================
// Run with Graceful Shutdown
// ============================================

// Run starts the server and handles signals for a graceful shutdown.
//
// Signals handled:
// - SIGINT (Ctrl+C)
// - SIGTERM (kill)
//
// On receiving a signal:
// 1. Stop accepting new connections
// 2. Wait for active requests to finish
// 3. Exit
func (s *Server) Run() error {
	// Channel for server errors
	errChan := make(chan error, 1)

	// Run the server in a goroutine
	go func() {
		if err := s.Start(); err != nil {
			errChan <- err
		}
	}()

	// Channel for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for either an error or a shutdown signal
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		s.config.Logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	}

	// Graceful shutdown
	ctx := context.Background()
	return s.Shutdown(ctx)
}

// RunWithContext starts the server, cancellable via ctx.
//
// Useful for tests and programmatic control.
func (s *Server) RunWithContext(ctx context.Context) error {
	// Channel for server errors
	errChan := make(chan error, 1)

	// Run the server in a goroutine
	go func() {
		if err := s.Start(); err != nil {
			errChan <- err
		}
	}()

	// Wait for either an error or context cancellation
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.config.Logger.Info("Context cancelled, initiating shutdown")
	}

	// Graceful shutdown
	shutdownCtx := context.Background()
	return s.Shutdown(shutdownCtx)
}

// ============================================
// Helper Functions
// ============================================

// QuickStart starts a server with minimal configuration.
//
// Usage:
//
//	router := http.NewDevelopmentRouter()
//	http.QuickStart(router, ":8080")
func QuickStart(router *gin.Engine, addr string) error {
	host, port := parseAddress(addr)
	config := &ServerConfig{
		Host:            host,
		Port:            port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		Logger:          slog.Default(),
	}

	server := NewServer(config, router)
	return server.Run()
}

// parseAddress splits addr into host and port.
func parseAddress(addr string) (host, port string) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			host = addr[:i]
			port = addr[i+1:]
			return
		}
	}
	return "", addr
}
