package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/louisbranch/smalltown/internal/platform/timeouts"
	"github.com/louisbranch/smalltown/internal/services/game/app"
)

// Run assembles the service from the environment and serves the HTTP
// API on the port until the context ends.
func Run(ctx context.Context, port int) error {
	return RunWithAddr(ctx, fmt.Sprintf(":%d", port))
}

// RunWithAddr is Run with an explicit listen address.
func RunWithAddr(ctx context.Context, addr string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "game").Logger()
	svc, closeStore, err := app.OpenFromEnv(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error().Err(err).Msg("close store")
		}
	}()

	server, err := NewServer(svc, logger)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	return listenAndServe(ctx, httpServer, logger)
}

// listenAndServe runs the HTTP server until it fails or the context
// ends, then shuts it down gracefully.
func listenAndServe(ctx context.Context, httpServer *http.Server, logger zerolog.Logger) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	logger.Info().Str("addr", httpServer.Addr).Msg("game API listening")
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
