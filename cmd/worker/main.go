package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/config"
	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/queue"
	"github.com/Raymond9734/pizza-customer-console/internal/repository"
	"github.com/Raymond9734/pizza-customer-console/internal/worker"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n%s\n", os.Args[0], config.Usage())
	}
	flag.Parse()

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting customer export worker")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to Redis queue
	redisClient, err := queue.Connect(context.Background(), cfg.Queue.RedisURL, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	queueClient := queue.NewRedisClient(redisClient, cfg.Queue.QueueName, logger)
	defer queueClient.Close()

	// Exports always read fresh customers, so no page cache here
	api := repository.NewAPIClient(repository.APIConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)
	customerRepo := repository.NewCustomerRepository(api, logger)

	store, err := worker.NewFileStore(cfg.Worker.ExportDir)
	if err != nil {
		logger.Error("failed to open export directory",
			slog.String("dir", cfg.Worker.ExportDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	processor := worker.NewExportProcessor(
		customerRepo,
		store,
		cfg.List.FetchCap,
		cfg.Worker.MaxRetryCount,
		logger,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start consuming jobs
	consumerErrors := make(chan error, 1)
	go func() {
		logger.Info("export worker ready",
			slog.String("export_dir", cfg.Worker.ExportDir),
			slog.Int("max_retry_count", cfg.Worker.MaxRetryCount),
		)

		handler := func(ctx context.Context, job *models.ExportJob) error {
			return processor.Process(ctx, job)
		}

		consumerErrors <- queueClient.Consume(ctx, handler, cfg.Worker.Concurrency)
	}()

	// Wait for interrupt signal or consumer error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("consumer error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))

		// Cancel context to stop consumer
		cancel()

		// Consume returns once in-flight exports finish
		select {
		case <-consumerErrors:
		case <-time.After(30 * time.Second):
			logger.Warn("timed out waiting for exports to finish")
		}

		logger.Info("worker stopped gracefully")
	}
}
