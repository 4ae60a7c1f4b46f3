package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/pkg/selectiontoken"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

func DateOptionsReadyKey(requestID uuid.UUID, tokenHash string) string {
	return fmt.Sprintf("%s:%s:%s", shared.TopicDateOptionsReady, requestID, selectiontoken.Prefix(tokenHash))
}

// DepositRequestedKey uses the checkout session id as cause, so a new session notifies again.
func DepositRequestedKey(depositRequestID uuid.UUID, cause string) string {
	return fmt.Sprintf("%s:%s:%s", shared.TopicDepositRequested, depositRequestID, cause)
}

func DepositPaidKey(depositRequestID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", shared.TopicDepositPaid, depositRequestID)
}

type Notification struct {
	Topic     string
	DedupeKey string
	Payload   any
}

// NotificationEnqueuer records at most one job per dedupe key and hands new jobs to the worker.
type NotificationEnqueuer interface {
	// Enqueue returns nil when the key was already recorded.
	Enqueue(ctx context.Context, tx shared.Tx, n Notification) (*shared.NotificationJob, error)
	// Dispatch publishes after commit. A failed publish leaves the job queued for the relay.
	Dispatch(ctx context.Context, jobs ...*shared.NotificationJob)
}

type notificationEnqueuerImpl struct {
	publisher shared.NotificationPublisher
	clock     clock.Clock
}

func NewNotificationEnqueuer(publisher shared.NotificationPublisher, clk clock.Clock) NotificationEnqueuer {
	return &notificationEnqueuerImpl{publisher: publisher, clock: clk}
}

func (e *notificationEnqueuerImpl) Enqueue(ctx context.Context, tx shared.Tx, n Notification) (*shared.NotificationJob, error) {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return nil, errs.Wrap(err, "marshal notification payload")
	}

	job := &shared.NotificationJob{
		ID:        uuid.New(),
		Kind:      shared.NotificationKindEmail,
		Topic:     n.Topic,
		DedupeKey: n.DedupeKey,
		Payload:   payload,
		Status:    shared.NotificationQueued,
		RunAt:     e.clock.Now(),
	}

	inserted, err := tx.Notifications().Enqueue(ctx, job)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !inserted {
		slog.Debug("notification deduplicated", "topic", n.Topic, "dedupe_key", n.DedupeKey)
		return nil, nil
	}
	return job, nil
}

func (e *notificationEnqueuerImpl) Dispatch(ctx context.Context, jobs ...*shared.NotificationJob) {
	for _, job := range jobs {
		if job == nil {
			continue
		}
		if err := e.publisher.Publish(ctx, job); err != nil {
			slog.Warn("notification publish failed, job stays queued",
				"topic", job.Topic,
				"dedupe_key", job.DedupeKey,
				"error", err.Error())
		}
	}
}
