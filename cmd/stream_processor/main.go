package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tx-dispute-ledger/internal/config"
	"github.com/tx-dispute-ledger/internal/domain/ledger"
	"github.com/tx-dispute-ledger/internal/logger"
	"github.com/tx-dispute-ledger/internal/platform/messaging/consumers"
	"github.com/tx-dispute-ledger/internal/platform/messaging/producers"
	"github.com/tx-dispute-ledger/internal/server"
	"github.com/tx-dispute-ledger/internal/service"
	"github.com/tx-dispute-ledger/internal/stream"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("stream_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("starting stream processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Ledger engine behind the stream service: one writer, many readers
	var engineOpts []ledger.Option
	if cfg.Processor.AllowWithdrawalDisputes {
		engineOpts = append(engineOpts, ledger.WithWithdrawalDisputes(true))
	}
	streamService := service.NewStreamService(log, ledger.NewEngine(engineOpts...))

	// Kafka plumbing
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("failed to initialize DLQ producer", "error", err)
		os.Exit(1)
	}

	operationProducer, err := producers.NewOperationMessageProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("failed to initialize operation producer", "error", err)
		os.Exit(1)
	}

	operationHandler := stream.NewOperationHandler(log, streamService, dlqProducer)

	// HTTP API: operation submission and balance queries
	httpServer := server.NewServer(log, cfg, streamService, operationProducer)

	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting kafka consumer",
			"topic", cfg.Kafka.OperationTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.OperationTopic, cfg.Kafka.ConsumerGroup, operationHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := httpServer.Start(); err != nil {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("shutdown signal received")
	case err := <-errChan:
		log.Error("service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("starting graceful shutdown")

	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error("error stopping HTTP server", "error", err)
	}

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("all services stopped")
	case <-shutdownCtx.Done():
		log.Warn("shutdown timeout reached, forcing exit")
	}

	if dlqProducer != nil {
		if err := dlqProducer.Close(); err != nil {
			log.Error("error closing DLQ producer", "error", err)
		}
	}
	if err := operationProducer.Close(); err != nil {
		log.Error("error closing operation producer", "error", err)
	}
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("error closing kafka consumer", "error", err)
	}

	stats := streamService.Stats()
	log.Info("final run statistics",
		"applied", stats.Applied,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)

	if serviceErr != nil {
		log.Error("stream processor shutdown with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("stream processor shutdown completed successfully")
}
