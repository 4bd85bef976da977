package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start binds the listener and blocks until the process receives an
// interrupt, then shuts everything down in reverse boot order.
func (s *Server) Start() error {
	addr := s.Cfg.GetAddr()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the modules, the HTTP server, and the message bus.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, m := range s.modules {
		if err := m.Shutdown(ctx); err != nil {
			slog.Error("module shutdown failed", "module", m.Name(), "error", err)
		}
	}

	if err := s.E.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}

	if err := s.bus.Close(); err != nil {
		slog.Error("message bus close failed", "error", err)
	}

	if s.otelCleanup != nil {
		s.otelCleanup()
	}

	slog.Info("server stopped")
	return nil
}
