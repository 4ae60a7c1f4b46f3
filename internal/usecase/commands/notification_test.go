//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/selectiontoken"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/shared"
	"booking-orchestrator/tests/common/fakestore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationKeys(t *testing.T) {
	id := uuid.MustParse("7b0a4a44-2f0c-4a8e-9d55-3f2f1f0d9b10")
	hash := selectiontoken.Hash("raw-token")

	assert.Equal(t, "trip_date_options_ready:"+id.String()+":"+hash[:12], commands.DateOptionsReadyKey(id, hash))
	assert.Equal(t, "deposit_customer_requested:"+id.String()+":cs_1", commands.DepositRequestedKey(id, "cs_1"))
	assert.Equal(t, "deposit_paid_partner:"+id.String(), commands.DepositPaidKey(id))
}

func TestNotificationEnqueuer(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(baseTime)

	t.Run("success: second enqueue with the same key is dropped", func(t *testing.T) {
		store := fakestore.New()
		publisher := &fakestore.Publisher{}
		enq := commands.NewNotificationEnqueuer(publisher, clk)
		n := commands.Notification{Topic: shared.TopicDepositPaid, DedupeKey: "deposit_paid_partner:x", Payload: map[string]string{"a": "b"}}

		var first, second *shared.NotificationJob
		err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			if first, err = enq.Enqueue(ctx, tx, n); err != nil {
				return err
			}
			second, err = enq.Enqueue(ctx, tx, n)
			return err
		})
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.Nil(t, second)
		assert.JSONEq(t, `{"a":"b"}`, string(first.Payload))
		assert.Equal(t, baseTime, first.RunAt)

		enq.Dispatch(ctx, first, second)
		assert.Len(t, publisher.Published(), 1)
		assert.Len(t, store.Jobs(), 1)
	})

	t.Run("success: rollback discards the job", func(t *testing.T) {
		store := fakestore.New()
		enq := commands.NewNotificationEnqueuer(&fakestore.Publisher{}, clk)

		err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if _, err := enq.Enqueue(ctx, tx, commands.Notification{Topic: "t", DedupeKey: "k", Payload: 1}); err != nil {
				return err
			}
			return errors.New("later step failed")
		})
		require.Error(t, err)
		assert.Empty(t, store.Jobs())
	})

	t.Run("success: publish failure leaves the job queued", func(t *testing.T) {
		store := fakestore.New()
		enq := commands.NewNotificationEnqueuer(&fakestore.Publisher{Err: errors.New("redis down")}, clk)

		var job *shared.NotificationJob
		err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			job, err = enq.Enqueue(ctx, tx, commands.Notification{Topic: "t", DedupeKey: "k2", Payload: 1})
			return err
		})
		require.NoError(t, err)

		assert.NotPanics(t, func() { enq.Dispatch(ctx, job) })
		jobs := store.Jobs()
		require.Len(t, jobs, 1)
		assert.Equal(t, shared.NotificationQueued, jobs[0].Status)
	})
}
