package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"bizops/internal/amqp"
	"bizops/internal/backend"
	"bizops/internal/cli"
	"bizops/internal/log"
	"bizops/internal/metrics"
	"bizops/internal/ports"
	gsheet "bizops/internal/sheets/google"
	"bizops/internal/sheets/memory"
	"bizops/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Stdout, os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentWorker)
	logger.Info("Starting bizops-worker", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// The worker consumes events itself, so the backend must not open a
	// second broker connection for publishing.
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	if err := bcfg.ValidateShared(); err != nil {
		logger.Error("Worker needs a backend other processes write to", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	bcfg.AMQPURL = ""
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Cleanup()

	var exporter ports.ReportExporter
	if cfg.GoogleSpreadsheetID != "" {
		exporter, err = gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		}, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets exporter", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		exporter = memory.New()
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, exporting in memory only")
	}

	exportWorker := worker.NewExportWorker(
		worker.RepositorySource{Bookings: res.Repo, Expenses: res.Repo},
		exporter,
		worker.Config{Debounce: cfg.ExportDebounce, Interval: cfg.ExportInterval},
		logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return exportWorker.Run(gctx) })

	if cfg.AMQPURL != "" {
		consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer consumer.Close()
		g.Go(func() error { return consumer.Consume(gctx, exportWorker.HandleEvent) })
	} else {
		logger.Info("Skipping AMQP message consumption - no AMQP_URL provided")
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			go func() {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			logger.Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", log.FieldError, err)
		res.Cleanup()
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete", log.FieldOperation, log.OpShutdown)
}
