package commands

import (
	"context"
	"log/slog"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/domain/fulfillment"
	"booking-orchestrator/internal/domain/user"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type MarkPaidResult struct {
	DepositRequestID uuid.UUID
	FulfillmentID    uuid.UUID
	Status           deposit.Status
	AlreadyPaid      bool
}

// DepositCommands consumes "payment confirmed" for a deposit request.
type DepositCommands interface {
	MarkPaid(ctx context.Context, depositRequestID uuid.UUID, sessionID string, actor user.Actor) (*MarkPaidResult, error)
}

type depositUseCaseImpl struct {
	uow      shared.UnitOfWork
	guard    AuthorizationGuard
	notifier NotificationEnqueuer
	clock    clock.Clock
}

func NewDepositUseCase(uow shared.UnitOfWork, guard AuthorizationGuard, notifier NotificationEnqueuer, clk clock.Clock) DepositCommands {
	return &depositUseCaseImpl{uow: uow, guard: guard, notifier: notifier, clock: clk}
}

func (uc *depositUseCaseImpl) MarkPaid(ctx context.Context, depositRequestID uuid.UUID, sessionID string, actor user.Actor) (*MarkPaidResult, error) {
	if err := uc.guard.RequireAdmin(actor); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	result := &MarkPaidResult{DepositRequestID: depositRequestID}

	var job *shared.NotificationJob
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Deposits().FindByID(ctx, depositRequestID)
		if err != nil {
			return err
		}
		result.FulfillmentID = current.FulfillmentID
		if current.IsPaid() {
			result.AlreadyPaid = true
			result.Status = current.Status
			return nil
		}

		paid, ok, err := tx.Deposits().MarkPaid(ctx, depositRequestID, sessionID, now)
		if err != nil {
			return err
		}
		if !ok {
			// another caller won; the row can only have moved to paid
			result.AlreadyPaid = true
			result.Status = deposit.StatusPaid
			return nil
		}
		result.Status = paid.Status

		if _, err := tx.Fulfillments().Accept(ctx, paid.FulfillmentID, now); err != nil {
			return err
		}

		req, err := optional(tx.Selections().FindByFulfillmentID(ctx, paid.FulfillmentID))
		if err != nil {
			return err
		}
		if req != nil {
			view := fulfillment.NewSelectionView(req, paid, now)
			if err := tx.Fulfillments().UpdateSelectionView(ctx, paid.FulfillmentID, view); err != nil {
				return err
			}
		}

		paidAt := now
		if paid.PaidAt != nil {
			paidAt = *paid.PaidAt
		}
		job, err = uc.notifier.Enqueue(ctx, tx, Notification{
			Topic:     shared.TopicDepositPaid,
			DedupeKey: DepositPaidKey(paid.ID),
			Payload: shared.DepositPaidPayload{
				DepositRequestID: paid.ID,
				BookingID:        paid.BookingID,
				FulfillmentID:    paid.FulfillmentID,
				PartnerID:        paid.PartnerID,
				Amount:           paid.Amount.Decimal(),
				Currency:         paid.Amount.Currency(),
				PaidAt:           paidAt,
			},
		})
		return err
	})
	if err != nil {
		return nil, repoErr(err, ErrNotFound)
	}
	uc.notifier.Dispatch(ctx, job)

	if !result.AlreadyPaid {
		slog.Info("deposit paid",
			"deposit_request_id", depositRequestID,
			"fulfillment_id", result.FulfillmentID,
			"actor_id", actor.UserID)
	}
	return result, nil
}
