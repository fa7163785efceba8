// Command ingest is the UKCS hub spreadsheet CLI.
//
// Usage:
//
//	ukcs publish --season 48
//	ukcs pro --season 48
//	ukcs rosters --season 48
//	ukcs backup --season 48 --out season48.csv
//
// When --season is omitted the season number is asked for interactively.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/backup"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/config"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/pipeline"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/prompt"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/scrape"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/sheets"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "ukcs",
		Short:        "Publish ESEA standings for UK teams to the hub spreadsheet",
		SilenceUsage: true,
	}

	root.AddCommand(publishCmd())
	root.AddCommand(proCmd())
	root.AddCommand(rostersCmd())
	root.AddCommand(backupCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// publish command
// --------------------------------------------------------------------------

func publishCmd() *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Scrape every division and rewrite the season worksheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, season, true, func(ctx context.Context, p *pipeline.Pipeline, season int, logger *slog.Logger) error {
				start := time.Now()
				result, err := p.Publish(ctx, season)
				logResult(logger, "Publish", start, result)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "ESEA season number")
	return cmd
}

// --------------------------------------------------------------------------
// pro command
// --------------------------------------------------------------------------

func proCmd() *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "pro",
		Short: "Replace the Pro/Challenger block from the Pro/Ch Teams worksheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, season, false, func(ctx context.Context, p *pipeline.Pipeline, season int, logger *slog.Logger) error {
				start := time.Now()
				result, err := p.RefreshPro(ctx, season)
				logResult(logger, "Pro refresh", start, result)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "ESEA season number")
	return cmd
}

// --------------------------------------------------------------------------
// rosters command
// --------------------------------------------------------------------------

func rostersCmd() *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "rosters",
		Short: "Rewrite the Players and Coach columns from the roster worksheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, season, false, func(ctx context.Context, p *pipeline.Pipeline, season int, logger *slog.Logger) error {
				start := time.Now()
				result, err := p.RefreshRosters(ctx, season)
				logResult(logger, "Roster refresh", start, result)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "ESEA season number")
	return cmd
}

// --------------------------------------------------------------------------
// backup command
// --------------------------------------------------------------------------

func backupCmd() *cobra.Command {
	var season int
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Download the season worksheet as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, season, false, func(ctx context.Context, p *pipeline.Pipeline, season int, logger *slog.Logger) error {
				path := out
				if path == "" {
					path = backup.FileName(season)
				}
				start := time.Now()
				err := backup.SaveFile(path, func(w io.Writer) error {
					result, err := p.Backup(ctx, season, w)
					logResult(logger, "Backup", start, result)
					return err
				})
				if err != nil {
					return err
				}
				logger.Info("Backup saved", "path", path)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "ESEA season number")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default ukcshub_season<N>.csv)")
	return cmd
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

type pipelineFunc func(ctx context.Context, p *pipeline.Pipeline, season int, logger *slog.Logger) error

// runPipeline loads configuration, resolves the season, connects to the
// spreadsheet and, when scraping is needed, launches the browser. Every
// client is built once here and handed to the pipeline.
func runPipeline(cmd *cobra.Command, season int, needsBrowser bool, fn pipelineFunc) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if !cmd.Flags().Changed("season") {
		season, err = prompt.Season(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	logger.Info("Authenticating with Google Sheets...")
	store, err := sheets.New(ctx, sheets.Options{
		CredentialsFile: cfg.GoogleCredentialsFile,
		SpreadsheetID:   cfg.SpreadsheetID,
		SpreadsheetName: cfg.SpreadsheetName,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect to spreadsheet: %w", err)
	}

	deps := pipeline.Deps{
		Store:       store,
		League:      cfg.League,
		Origin:      cfg.SiteOrigin,
		Nationality: cfg.Nationality,
		Logger:      logger,
	}
	if needsBrowser {
		browser, err := scrape.Launch(ctx, scrape.OptionsFromConfig(cfg), logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := browser.Close(); err != nil {
				logger.Warn("Browser close failed", "error", err)
			}
		}()
		deps.Source = browser
	}

	return fn(ctx, pipeline.New(deps), season, logger)
}

func logResult(logger *slog.Logger, what string, start time.Time, result pipeline.Result) {
	logger.Info(what+" finished",
		"run_id", result.RunID,
		"duration", time.Since(start).Round(time.Millisecond),
		"summary", result.Summary())
	for _, e := range result.Errors {
		logger.Warn("pipeline error", "run_id", result.RunID, "error", e)
	}
}
