package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"booking-orchestrator/cmd/bootstrap"
	"booking-orchestrator/internal/infra/queue"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

func startWorker(lc fx.Lifecycle, cfg config.QueueConfig, uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) error {
	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required for the worker")
	}

	srv := asynq.NewServer(queue.RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{queue.NotificationQueue: 1},
		Logger:      queue.NewLogger(logger),
	})
	mux := asynq.NewServeMux()
	queue.NewWorker(uow, queue.LogSender{Logger: logger}, clk).Register(mux)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("🚀 starting notification worker", "redis", cfg.RedisAddr, "concurrency", cfg.Concurrency)
			return srv.Start(mux)
		},
		OnStop: func(_ context.Context) error {
			logger.Info("🛑 stopping notification worker")
			srv.Shutdown()
			return nil
		},
	})
	return nil
}

// startRelay republishes outbox rows the API could not hand to Redis.
func startRelay(lc fx.Lifecycle, cfg config.QueueConfig, uow shared.UnitOfWork, publisher shared.NotificationPublisher, clk clock.Clock, logger *slog.Logger) {
	relay := queue.NewRelay(uow, publisher, clk, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting outbox relay", "interval", cfg.RelayInterval, "grace", cfg.RelayGrace)
			go func() {
				defer close(done)
				relay.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.WorkerModule,
		fx.Invoke(startWorker, startRelay),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("worker failed to start", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("worker failed to stop cleanly", "error", err)
	}
}
