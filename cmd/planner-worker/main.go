package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planner/internal/amqp"
	"planner/internal/cli"
	"planner/internal/services"
	"planner/internal/worker"
)

// snapshotDebounce collapses a burst of state-change messages into a
// single recorded snapshot.
const snapshotDebounce = 5 * time.Minute

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting planner-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	result := cli.InitStore(logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Storage cleanup failed", "error", err)
			}
		}
	}()

	// The worker consumes snapshot triggers; it never publishes, so the
	// planner service gets no AMQP client.
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	planner := services.NewPlannerService(result.Store, nil)
	snapshotWorker := worker.NewSnapshotWorker(planner, snapshotDebounce)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Record a baseline before consuming so a fresh deployment has
	// history even if no messages ever arrive.
	if err := snapshotWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup snapshot check failed", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		err := amqpClient.Consume(ctx, func(msg *amqp.Message) error {
			return snapshotWorker.HandleMessage(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
		cancel()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
