package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stopfinder/internal/config"
	"github.com/bbernstein/stopfinder/internal/lookup"
	"github.com/bbernstein/stopfinder/internal/web"

	_ "time/tzdata"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	svc, err := (&lookup.DefaultServiceFactory{}).NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	reporter, err := web.NewReporter(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		// a nil reporter drops failures
		log.Error().Err(err).Msg("Failed to initialize sentry")
	}

	srv, err := web.NewServer(web.Options{
		ListenAddr:         cfg.ListenAddr,
		Timeout:            cfg.HTTPTimeout,
		PredictionsEnabled: cfg.EnablePredictions,
	}, svc, reporter, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
