package bootstrap

import (
	"context"
	"log/slog"

	"booking-orchestrator/internal/infra/queue"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var QueueModule = fx.Module("queue",
	fx.Provide(
		NewNotificationPublisher,
	),
)

// NewNotificationPublisher falls back to leaving jobs in the outbox when REDIS_ADDR is unset.
func NewNotificationPublisher(lc fx.Lifecycle, cfg config.QueueConfig, logger *slog.Logger) shared.NotificationPublisher {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR is empty, notifications stay in the outbox")
		return queue.NoopPublisher{}
	}

	client := asynq.NewClient(queue.RedisOpt(cfg))
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return queue.NewAsynqPublisher(client)
}
