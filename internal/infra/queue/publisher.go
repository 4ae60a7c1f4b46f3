package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

const (
	NotificationQueue = "notifications"
	maxTaskRetry      = 5
)

// TaskEnvelope is the asynq payload; the dedupe key ties a task back to its outbox row.
type TaskEnvelope struct {
	DedupeKey string          `json:"dedupe_key"`
	Payload   json.RawMessage `json:"payload"`
}

type AsynqPublisher struct {
	client *asynq.Client
}

func NewAsynqPublisher(client *asynq.Client) *AsynqPublisher {
	return &AsynqPublisher{client: client}
}

func RedisOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func NewTask(job *shared.NotificationJob) (*asynq.Task, error) {
	body, err := json.Marshal(TaskEnvelope{DedupeKey: job.DedupeKey, Payload: job.Payload})
	if err != nil {
		return nil, errs.Wrap(err, "marshal task envelope")
	}
	return asynq.NewTask(job.Topic, body), nil
}

// Publish uses the dedupe key as task id, so a second publish of the same job is a no-op.
func (p *AsynqPublisher) Publish(ctx context.Context, job *shared.NotificationJob) error {
	task, err := NewTask(job)
	if err != nil {
		return err
	}

	info, err := p.client.EnqueueContext(ctx, task,
		asynq.TaskID(job.DedupeKey),
		asynq.Queue(NotificationQueue),
		asynq.MaxRetry(maxTaskRetry),
		asynq.ProcessAt(job.RunAt),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return errs.Wrap(err, "enqueue notification task")
	}

	slog.Debug("notification task enqueued", "task_id", info.ID, "topic", job.Topic, "queue", info.Queue)
	return nil
}

// NoopPublisher leaves jobs queued in the outbox when no broker is configured; the worker relay sends them.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, job *shared.NotificationJob) error {
	slog.Debug("no queue configured, notification left in outbox", "topic", job.Topic, "dedupe_key", job.DedupeKey)
	return nil
}
