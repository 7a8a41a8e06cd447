package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/sbfleet/fleet_account_manager/internal/platform/config"
	"github.com/sbfleet/fleet_account_manager/internal/tasks"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task processing failed",
					slog.String("type", task.Type()),
					slog.String("error", err.Error()))
			}),
		},
	)

	mux := asynq.NewServeMux()
	tasks.RegisterHandlers(mux, cfg, logger)

	// Graceful shutdown on SIGINT/SIGTERM
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Info("Shutting down worker...")
		srv.Shutdown()
	}()

	logger.Info("Worker starting", slog.Int("concurrency", cfg.WorkerConcurrency))
	if err := srv.Run(mux); err != nil {
		logger.Error("Worker failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
