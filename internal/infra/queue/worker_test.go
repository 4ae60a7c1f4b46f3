//go:build unit

package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"booking-orchestrator/internal/infra/queue"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/usecase/shared"
	"booking-orchestrator/tests/common/fakestore"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	topics []string
	err    error
}

func (s *recordingSender) Send(_ context.Context, topic string, _ json.RawMessage) error {
	s.topics = append(s.topics, topic)
	return s.err
}

func seedJob(t *testing.T, store *fakestore.Store, key string) *shared.NotificationJob {
	t.Helper()
	return seedJobAt(t, store, key, time.Now())
}

func seedJobAt(t *testing.T, store *fakestore.Store, key string, runAt time.Time) *shared.NotificationJob {
	t.Helper()
	job := &shared.NotificationJob{
		ID:        uuid.New(),
		Kind:      shared.NotificationKindEmail,
		Topic:     shared.TopicDepositPaid,
		DedupeKey: key,
		Payload:   json.RawMessage(`{"amount":"50.00"}`),
		Status:    shared.NotificationQueued,
		RunAt:     runAt,
	}
	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Notifications().Enqueue(ctx, job)
		return err
	})
	require.NoError(t, err)
	return job
}

func TestNewTask(t *testing.T) {
	job := &shared.NotificationJob{Topic: shared.TopicDateOptionsReady, DedupeKey: "k1", Payload: json.RawMessage(`{"x":1}`)}

	task, err := queue.NewTask(job)
	require.NoError(t, err)
	assert.Equal(t, shared.TopicDateOptionsReady, task.Type())
	assert.JSONEq(t, `{"dedupe_key":"k1","payload":{"x":1}}`, string(task.Payload()))
}

func TestWorker_ProcessTask(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC))

	t.Run("success: delivered job is marked sent", func(t *testing.T) {
		store := fakestore.New()
		job := seedJob(t, store, "deposit_paid_partner:1")
		sender := &recordingSender{}
		task, err := queue.NewTask(job)
		require.NoError(t, err)

		err = queue.NewWorker(store, sender, clk).ProcessTask(ctx, task)
		require.NoError(t, err)
		assert.Equal(t, []string{shared.TopicDepositPaid}, sender.topics)
		assert.Equal(t, shared.NotificationSent, store.Jobs()[0].Status)
		assert.JSONEq(t, `{}`, string(store.Jobs()[0].Payload))
	})

	t.Run("error: failed delivery is recorded and retried", func(t *testing.T) {
		store := fakestore.New()
		job := seedJob(t, store, "deposit_paid_partner:2")
		sender := &recordingSender{err: errors.New("smtp timeout")}
		task, err := queue.NewTask(job)
		require.NoError(t, err)

		err = queue.NewWorker(store, sender, clk).ProcessTask(ctx, task)
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
		assert.Equal(t, shared.NotificationFailed, store.Jobs()[0].Status)
	})

	t.Run("error: malformed envelope is not retried", func(t *testing.T) {
		store := fakestore.New()
		sender := &recordingSender{}

		err := queue.NewWorker(store, sender, clk).ProcessTask(ctx, asynq.NewTask(shared.TopicDepositPaid, []byte("{")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, asynq.SkipRetry))
		assert.Empty(t, sender.topics)
	})
}

func TestWorker_Register(t *testing.T) {
	mux := asynq.NewServeMux()
	queue.NewWorker(fakestore.New(), &recordingSender{}, clock.NewRealClock()).Register(mux)

	for _, topic := range queue.Topics {
		_, pattern := mux.Handler(asynq.NewTask(topic, nil))
		assert.Equal(t, topic, pattern)
	}
}
