package shared

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/domain/fulfillment"
	"booking-orchestrator/internal/domain/selection"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single statements outside a transaction
	WithDB(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Selections() SelectionRequestRepository
	Deposits() DepositRequestRepository
	DepositRules() DepositRuleRepository
	Fulfillments() FulfillmentRepository
	Bookings() BookingRepository
	PartnerMembers() PartnerMemberRepository
	Notifications() NotificationRepository
}

type SelectionRequestRepository interface {
	FindByTokenHash(ctx context.Context, tokenHash string) (*selection.Request, error)
	FindByFulfillmentID(ctx context.Context, fulfillmentID uuid.UUID) (*selection.Request, error)
	// Upsert keys on fulfillment id and replaces token, dates, status and expiry.
	Upsert(ctx context.Context, req *selection.Request) (uuid.UUID, error)
	// MarkSelected is the conditional transition; ok is false when no row matched.
	MarkSelected(ctx context.Context, tokenHash string, date selection.Date, now time.Time) (req *selection.Request, ok bool, err error)
	MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) error
}

type DepositRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*deposit.Request, error)
	FindByFulfillmentID(ctx context.Context, fulfillmentID uuid.UUID) (*deposit.Request, error)
	// UpsertPending writes a pending row with cleared checkout fields unless the stored row is paid (ok=false).
	UpsertPending(ctx context.Context, req *deposit.Request) (saved *deposit.Request, ok bool, err error)
	AttachCheckout(ctx context.Context, id uuid.UUID, checkout CheckoutAttachment, now time.Time) error
	// MarkPaid moves pending to paid; ok is false when the row was not pending.
	MarkPaid(ctx context.Context, id uuid.UUID, sessionID string, now time.Time) (req *deposit.Request, ok bool, err error)
}

type CheckoutAttachment struct {
	SessionID  string
	URL        string
	CustomerID string
	// SkipCustomerID leaves provider_customer_id untouched.
	SkipCustomerID bool
}

type DepositRuleRepository interface {
	FindEnabledOverride(ctx context.Context, resourceType string, resourceID uuid.UUID) (*deposit.Rule, error)
	FindEnabledDefault(ctx context.Context, resourceType string) (*deposit.Rule, error)
}

type FulfillmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Fulfillment, error)
	// FindByBookingID prefers a fulfillment of resourceType, then the oldest one.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID, resourceType string) (*fulfillment.Fulfillment, error)
	UpdateSelectionView(ctx context.Context, id uuid.UUID, view fulfillment.SelectionView) error
	// Accept is a no-op for fulfillments outside pending/accepted.
	Accept(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Booking, error)
	SetSelectedDate(ctx context.Context, id uuid.UUID, date selection.Date, now time.Time) error
}

type PartnerMemberRepository interface {
	IsMember(ctx context.Context, partnerID, userID uuid.UUID) (bool, error)
}

type NotificationRepository interface {
	// Enqueue inserts unless the dedupe key exists; inserted reports which.
	Enqueue(ctx context.Context, job *NotificationJob) (inserted bool, err error)
	// ListQueued returns jobs still queued with run_at at or before olderThan, oldest first.
	ListQueued(ctx context.Context, olderThan time.Time, limit int) ([]*NotificationJob, error)
	// MarkSent also clears the payload, which may carry a raw selection token.
	MarkSent(ctx context.Context, dedupeKey string, now time.Time) error
	MarkFailed(ctx context.Context, dedupeKey string, lastError string, now time.Time) error
}
