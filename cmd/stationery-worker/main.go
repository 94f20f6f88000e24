package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"stationery/internal/amqp"
	"stationery/internal/cli"
	"stationery/internal/sheets"
	"stationery/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting stationery-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	sheetsClient, err := sheets.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, cfg.RequestsSheetName, cfg.UsagesSheetName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumeLoop(ctx, logger, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.ReconnectDelay, syncWorker)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

// consumeLoop keeps a consumer running, reconnecting after broker
// failures until the context is cancelled.
func consumeLoop(ctx context.Context, logger *slog.Logger, url, exchange, queue string, delay time.Duration, w *worker.SyncWorker) error {
	for {
		client, err := amqp.NewClient(url, exchange, queue)
		if err != nil {
			logger.Error("AMQP connect failed", "error", err, "retry_in", delay.String())
		} else {
			logger.Info("Consuming record-saved messages", "queue", queue)
			err = w.Run(ctx, client)
			client.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Consumer stopped", "error", err, "retry_in", delay.String())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
