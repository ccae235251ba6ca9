package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	auth "github.com/goliatone/go-staff-auth"
	"github.com/goliatone/go-staff-auth/config"
	"github.com/goliatone/go-staff-auth/server"
)

func main() {
	logger := auth.DefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, server.WithLogger(logger))
	if err != nil {
		logger.Error("server: %v", err)
		os.Exit(1)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Listen()
	}()

	select {
	case err := <-errc:
		if err != nil {
			logger.Error("listen: %v", err)
		}
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("shutdown: %v", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
