// Storesight - Retail Sales Analytics and Marketing Decision Engine
// Copyright 2026 Storesight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/storesight/storesight

// Command server runs the Storesight analytics HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storesight/storesight/internal/api"
	"github.com/storesight/storesight/internal/config"
	"github.com/storesight/storesight/internal/dataset"
	"github.com/storesight/storesight/internal/logging"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Int("port", cfg.Server.Port).
		Str("data_dir", cfg.Data.Dir).
		Msg("Starting Storesight")

	repo := dataset.NewRepository()
	autoloadDataset(cfg, repo)

	router := api.NewRouter(cfg, repo)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serverErr <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		if err := server.Close(); err != nil {
			logging.Error().Err(err).Msg("Forced close failed")
		}
	}
	logging.Info().Msg("Storesight stopped")
}

// autoloadDataset loads the configured default CSV at startup. A
// missing file is expected on a fresh install and only logged.
func autoloadDataset(cfg *config.Config, repo *dataset.Repository) {
	if !cfg.Data.Autoload || cfg.Data.DefaultCSV == "" {
		return
	}
	if _, err := os.Stat(cfg.Data.DefaultCSV); err != nil {
		logging.Info().Str("path", cfg.Data.DefaultCSV).Msg("Default dataset not present, starting empty")
		return
	}
	snap, err := repo.LoadFile(cfg.Data.DefaultCSV)
	if err != nil {
		logging.Warn().Err(err).Str("path", cfg.Data.DefaultCSV).Msg("Failed to autoload dataset")
		return
	}
	logging.Info().
		Str("path", cfg.Data.DefaultCSV).
		Int("records", len(snap.Transactions())).
		Msg("Dataset autoloaded")
}
