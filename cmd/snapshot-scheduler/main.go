package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"planner/internal/amqp"
	"planner/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting snapshot-scheduler")

	cfg := cli.LoadAndValidateConfig(logger)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.SnapshotSchedule, func() {
		publishCtx, publishCancel := context.WithTimeout(ctx, 10*time.Second)
		defer publishCancel()

		if err := amqpClient.PublishSnapshotRequest(publishCtx, "scheduler"); err != nil {
			logger.Error("Failed to publish snapshot request", "error", err)
			return
		}
		logger.Info("Published snapshot request", "schedule", cfg.SnapshotSchedule)
	})
	if err != nil {
		logger.Error("Failed to register snapshot schedule", "error", err, "schedule", cfg.SnapshotSchedule)
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("Snapshot schedule registered", "schedule", cfg.SnapshotSchedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down scheduler...")
	stopCtx := scheduler.Stop()
	cancel()

	select {
	case <-stopCtx.Done():
		logger.Info("Scheduler shutdown complete")
	case <-time.After(10 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
