// Package server owns the HTTP listener lifecycle, including
// signal-driven graceful shutdown of the listener and any background
// components registered with it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// StopFunc shuts down one component before the process exits.
type StopFunc func(ctx context.Context) error

// Server wraps http.Server with graceful shutdown of the listener and
// registered background components.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger

	mu        sync.Mutex
	stopFuncs []StopFunc
}

func New(handler http.Handler, port int, readTimeout, writeTimeout, shutdownTimeout time.Duration, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
	}
}

// OnShutdown registers a component stop function. Components stop in
// reverse registration order once the HTTP listener has drained, so
// register foundations (database pools) before the workers using them.
func (s *Server) OnShutdown(name string, fn StopFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopFuncs = append(s.stopFuncs, func(ctx context.Context) error {
		s.logger.Info("stopping component", slog.String("name", name))
		if err := fn(ctx); err != nil {
			s.logger.Error("component stop failed", slog.String("name", name), slog.Any("error", err))
			return err
		}
		s.logger.Info("component stopped", slog.String("name", name))
		return nil
	})
}

// Run serves until SIGINT or SIGTERM arrives, then shuts down
// gracefully. It returns when the listener has failed or shutdown has
// finished.
func (s *Server) Run() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listener: %w", err)
	case sig := <-sigCh:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		return s.shutdown()
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.httpServer.SetKeepAlivesEnabled(false)
	if err := s.httpServer.Shutdown(ctx); err != nil {
		// Keep going: registered components still need a chance to stop.
		s.logger.Error("listener shutdown failed", slog.Any("error", err))
	} else {
		s.logger.Info("listener drained")
	}

	s.mu.Lock()
	funcs := s.stopFuncs
	s.mu.Unlock()

	var firstErr error
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return firstErr
	}
	s.logger.Info("server stopped")
	return nil
}

// Addr reports the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
