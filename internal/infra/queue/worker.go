package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

var Topics = []string{
	shared.TopicDateOptionsReady,
	shared.TopicDepositRequested,
	shared.TopicDepositPaid,
}

// Sender delivers a rendered notification. Rendering lives with the messaging service.
type Sender interface {
	Send(ctx context.Context, topic string, payload json.RawMessage) error
}

// LogSender only logs; it stands in until a delivery channel is wired.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, topic string, payload json.RawMessage) error {
	s.Logger.Info("notification delivered", "topic", topic, "bytes", len(payload))
	return nil
}

type Worker struct {
	uow    shared.UnitOfWork
	sender Sender
	clock  clock.Clock
}

func NewWorker(uow shared.UnitOfWork, sender Sender, clk clock.Clock) *Worker {
	return &Worker{uow: uow, sender: sender, clock: clk}
}

func (w *Worker) Register(mux *asynq.ServeMux) {
	for _, topic := range Topics {
		mux.HandleFunc(topic, w.ProcessTask)
	}
}

func (w *Worker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var env TaskEnvelope
	if err := json.Unmarshal(task.Payload(), &env); err != nil {
		return fmt.Errorf("invalid notification envelope: %v: %w", err, asynq.SkipRetry)
	}

	if sendErr := w.sender.Send(ctx, task.Type(), env.Payload); sendErr != nil {
		err := w.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Notifications().MarkFailed(ctx, env.DedupeKey, sendErr.Error(), w.clock.Now())
		})
		if err != nil {
			slog.Warn("notification failure not recorded", "dedupe_key", env.DedupeKey, "error", err.Error())
		}
		return sendErr
	}

	return w.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().MarkSent(ctx, env.DedupeKey, w.clock.Now())
	})
}
