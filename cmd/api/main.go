package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/JackWithOneEye/sensiedit/internal/config"
	"github.com/JackWithOneEye/sensiedit/internal/database"
	"github.com/JackWithOneEye/sensiedit/internal/metrics"
	"github.com/JackWithOneEye/sensiedit/internal/server"
)

func main() {
	ctx := context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.NewConfig()
	dbs := database.NewDatabaseService(cfg)
	defer dbs.Close()

	var rec *metrics.Recorder
	if cfg.MetricsEnabled() {
		rec = metrics.NewRecorder()
	}

	s := server.NewServer(cfg, dbs, rec)

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go database.RunCleanup(cleanupCtx, dbs, cfg.CleanupInterval(), cfg.RomRetention())

	errChan := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", s.Addr)
		errChan <- s.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("could not serve", "err", err)
		}
	case sig := <-sigChan:
		slog.Info("terminating", "signal", sig.String())
	}

	stopCleanup()
	ctx2, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err := s.Shutdown(ctx2); err != nil {
		slog.Error("shutdown", "err", err)
	}
}
