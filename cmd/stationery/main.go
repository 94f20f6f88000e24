package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"stationery/internal/backend"
	"stationery/internal/catalog"
	"stationery/internal/catalog/csvfile"
	catgoogle "stationery/internal/catalog/google"
	"stationery/internal/cli"
	"stationery/internal/core"
	apphttp "stationery/internal/http"
	"stationery/internal/sheets"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Ledger backend (memory, csv, or sqlite with optional AMQP sync).
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, "backend", cfg.LedgerBackend)
		os.Exit(1)
	}
	logger.Info("Ledger backend initialized", "backend", cfg.LedgerBackend)

	// Item master source.
	var source catalog.Source
	switch cfg.CatalogSource {
	case "sheets":
		sheetsClient, err := sheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		source = catgoogle.New(sheetsClient, cfg.CatalogSheetName)
		logger.Info("Item master source: Google Sheets", "sheet", cfg.CatalogSheetName)
	default:
		source = csvfile.New(cfg.CatalogPath)
		logger.Info("Item master source: CSV", "path", cfg.CatalogPath)
	}
	catStore := catalog.NewStore(source)

	builder := core.Builder{
		Departments:      cfg.Departments,
		AllowManualEntry: cfg.AllowManualEntry,
	}

	srv := apphttp.NewServer(":"+cfg.Port, result.Store, catStore, builder, cfg.CatalogPath)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting stationery server", "port", cfg.Port, "backend", cfg.LedgerBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
