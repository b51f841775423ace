package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/config"
	"github.com/Raymond9734/pizza-customer-console/internal/handler"
	"github.com/Raymond9734/pizza-customer-console/internal/listing"
	"github.com/Raymond9734/pizza-customer-console/internal/location"
	"github.com/Raymond9734/pizza-customer-console/internal/notify"
	"github.com/Raymond9734/pizza-customer-console/internal/queue"
	"github.com/Raymond9734/pizza-customer-console/internal/repository"
	"github.com/Raymond9734/pizza-customer-console/internal/service"
	"github.com/Raymond9734/pizza-customer-console/internal/validation"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n%s\n", os.Args[0], config.Usage())
	}
	flag.Parse()

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting customer console server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	api := repository.NewAPIClient(repository.APIConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)

	// Redis backs the page cache and the export queue; the console runs without both
	redisClient, err := queue.Connect(context.Background(), cfg.Queue.RedisURL, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without cache and exports",
			slog.String("error", err.Error()),
		)
	} else {
		defer redisClient.Close()
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(api, logger)
	if redisClient != nil && cfg.Cache.Enabled {
		customerRepo = repository.NewCachedCustomerRepository(customerRepo, repository.NewRedisCache(redisClient), cfg.Cache.TTL, logger)
	}
	feedbackRepo := repository.NewFeedbackRepository(api, logger)

	// Initialize services
	locations := location.Default()
	validator := validation.New(time.Now)
	center := notify.NewCenter(cfg.Notify.Duration)

	customerSvc := service.NewCustomerService(customerRepo, validator, locations, center, api.BaseURL(), logger)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, logger)

	list := listing.NewController(customerRepo, listing.Config{
		SearchDelay: cfg.List.SearchDelay,
		FetchCap:    cfg.List.FetchCap,
	}, logger)
	defer list.Close()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
		defer cancel()
		if err := list.FetchPage(ctx); err != nil {
			logger.Warn("initial customer load failed", slog.String("error", err.Error()))
		}
	}()

	handlers := handler.Handlers{
		List:         handler.NewListHandler(list, customerSvc, logger),
		Form:         handler.NewFormHandler(customerSvc, handler.NewFormRegistry(), logger),
		Feedback:     handler.NewFeedbackHandler(feedbackSvc, logger),
		Notification: handler.NewNotificationHandler(center),
		Reference:    handler.NewReferenceHandler(locations),
	}

	var queueClient queue.Client
	if redisClient != nil {
		queueClient = queue.NewRedisClient(redisClient, cfg.Queue.QueueName, logger)
		exportSvc := service.NewExportService(queueClient, center, logger)
		handlers.Export = handler.NewExportHandler(exportSvc, list, logger)
	}
	handlers.Health = handler.NewHealthHandler(api, queueClient, logger)

	// Create server
	addr := cfg.Web.Addr()
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(handlers, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("console server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
