// Command api is the UKCS standings preview server. It assembles a season
// the same way `ukcs publish` does and serves the rows as JSON without
// touching the spreadsheet.
//
// Usage:
//
//	ukcs-api
//	API_PORT=8080 ukcs-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/api"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/cache"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/config"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/pipeline"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/scrape"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/sheets"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logger *slog.Logger
	if cfg.IsProduction() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger.Info("Connecting to spreadsheet...")
	store, err := sheets.New(ctx, sheets.Options{
		CredentialsFile: cfg.GoogleCredentialsFile,
		SpreadsheetID:   cfg.SpreadsheetID,
		SpreadsheetName: cfg.SpreadsheetName,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect to spreadsheet: %w", err)
	}
	logger.Info("Spreadsheet connected", "spreadsheet_id", store.SpreadsheetID())

	browser, err := scrape.Launch(ctx, scrape.OptionsFromConfig(cfg), logger)
	if err != nil {
		return err
	}
	defer browser.Close()

	p := pipeline.New(pipeline.Deps{
		Source:      browser,
		Store:       store,
		League:      cfg.League,
		Origin:      cfg.SiteOrigin,
		Nationality: cfg.Nationality,
		Logger:      logger,
	})

	appCache := cache.New(cfg.CacheEnabled, cfg.PreviewTTL)
	go appCache.Run(ctx)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled, "ttl", cfg.PreviewTTL)

	router := api.NewRouter(p, appCache, cfg, logger)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting UKCS preview API", "addr", addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
	return nil
}
