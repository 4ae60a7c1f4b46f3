//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/domain/fulfillment"
	"booking-orchestrator/internal/domain/user"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/shared"
	"booking-orchestrator/tests/common/builder"
	"booking-orchestrator/tests/common/fakestore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPendingDeposit(t *testing.T) (*fakestore.Store, *builder.TripBuilder, deposit.Request) {
	t.Helper()
	store := fakestore.New()
	trip := builder.NewTripBuilder()
	store.PutBooking(trip.BuildBooking())
	store.PutFulfillment(trip.BuildFulfillment())

	dep := deposit.Request{
		ID:                uuid.New(),
		FulfillmentID:     trip.FulfillmentID,
		PartnerID:         trip.PartnerID,
		BookingID:         trip.BookingID,
		ResourceType:      trip.ResourceType,
		ResourceID:        trip.ResourceID,
		Amount:            deposit.NewMoney(5000, "EUR"),
		Status:            deposit.StatusPending,
		CheckoutSessionID: "cs_test_1",
		CheckoutURL:       "https://checkout.test/pay/cs_test_1",
		CreatedAt:         baseTime,
		UpdatedAt:         baseTime,
	}
	store.PutDeposit(dep)
	return store, trip, dep
}

func TestDepositUseCase_MarkPaid(t *testing.T) {
	ctx := context.Background()
	admin := builder.NewActorBuilder().AsAdmin().Build()

	t.Run("success: marks paid, accepts fulfillment and notifies partner once", func(t *testing.T) {
		store, trip, dep := setupPendingDeposit(t)
		clk := clock.NewMockClock(baseTime)
		publisher := &fakestore.Publisher{}
		notifier := commands.NewNotificationEnqueuer(publisher, clk)
		uc := commands.NewDepositUseCase(store, commands.NewAuthorizationGuard(store), notifier, clk)

		res, err := uc.MarkPaid(ctx, dep.ID, "", admin)
		require.NoError(t, err)
		assert.Equal(t, deposit.StatusPaid, res.Status)
		assert.False(t, res.AlreadyPaid)
		assert.Equal(t, trip.FulfillmentID, res.FulfillmentID)

		stored, _ := store.DepositFor(trip.FulfillmentID)
		assert.Equal(t, deposit.StatusPaid, stored.Status)
		assert.Equal(t, "cs_test_1", stored.CheckoutSessionID, "empty session id keeps the stored one")
		require.NotNil(t, stored.PaidAt)
		assert.Equal(t, baseTime, *stored.PaidAt)
		assert.Equal(t, fulfillment.StatusAccepted, store.Fulfillment(trip.FulfillmentID).Status)

		jobs := store.JobsByTopic(shared.TopicDepositPaid)
		require.Len(t, jobs, 1)
		assert.Equal(t, commands.DepositPaidKey(dep.ID), jobs[0].DedupeKey)
		var payload shared.DepositPaidPayload
		require.NoError(t, json.Unmarshal(jobs[0].Payload, &payload))
		assert.Equal(t, "50.00", payload.Amount)
		assert.Equal(t, trip.PartnerID, payload.PartnerID)

		clk.Add(time.Hour)
		again, err := uc.MarkPaid(ctx, dep.ID, "cs_other", admin)
		require.NoError(t, err)
		assert.True(t, again.AlreadyPaid)

		stored, _ = store.DepositFor(trip.FulfillmentID)
		assert.Equal(t, baseTime, *stored.PaidAt, "second call changes nothing")
		assert.Equal(t, "cs_test_1", stored.CheckoutSessionID)
		assert.Len(t, store.JobsByTopic(shared.TopicDepositPaid), 1)
		assert.Len(t, publisher.Published(), 1)
	})

	t.Run("success: declined fulfillment stays declined", func(t *testing.T) {
		store, trip, dep := setupPendingDeposit(t)
		f := store.Fulfillment(trip.FulfillmentID)
		f.Status = fulfillment.StatusDeclined
		store.PutFulfillment(f)

		clk := clock.NewMockClock(baseTime)
		uc := commands.NewDepositUseCase(store, commands.NewAuthorizationGuard(store),
			commands.NewNotificationEnqueuer(&fakestore.Publisher{}, clk), clk)

		_, err := uc.MarkPaid(ctx, dep.ID, "cs_test_1", admin)
		require.NoError(t, err)
		assert.Equal(t, fulfillment.StatusDeclined, store.Fulfillment(trip.FulfillmentID).Status)
	})

	errorCases := []struct {
		name   string
		actor  user.Actor
		id     func(dep deposit.Request) uuid.UUID
		expect error
	}{
		{
			name:   "error: anonymous caller",
			actor:  user.Actor{},
			id:     func(dep deposit.Request) uuid.UUID { return dep.ID },
			expect: commands.ErrUnauthorized,
		},
		{
			name:   "error: partner is not admin",
			actor:  builder.NewActorBuilder().Build(),
			id:     func(dep deposit.Request) uuid.UUID { return dep.ID },
			expect: commands.ErrForbidden,
		},
		{
			name:   "error: unknown deposit request",
			actor:  admin,
			id:     func(deposit.Request) uuid.UUID { return uuid.New() },
			expect: commands.ErrNotFound,
		},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			store, trip, dep := setupPendingDeposit(t)
			clk := clock.NewMockClock(baseTime)
			uc := commands.NewDepositUseCase(store, commands.NewAuthorizationGuard(store),
				commands.NewNotificationEnqueuer(&fakestore.Publisher{}, clk), clk)

			_, err := uc.MarkPaid(ctx, tc.id(dep), "", tc.actor)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tc.expect), "got %v", err)

			stored, _ := store.DepositFor(trip.FulfillmentID)
			assert.Equal(t, deposit.StatusPending, stored.Status)
		})
	}
}
