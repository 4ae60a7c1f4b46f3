package shared

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/deposit"

	"github.com/google/uuid"
)

type NotificationJobStatus string

const (
	NotificationQueued NotificationJobStatus = "queued"
	NotificationSent   NotificationJobStatus = "sent"
	NotificationFailed NotificationJobStatus = "failed"
)

type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	DedupeKey string
	Payload   []byte
	Status    NotificationJobStatus
	RunAt     time.Time
}

// NotificationPublisher hands a recorded job to the downstream worker.
type NotificationPublisher interface {
	Publish(ctx context.Context, job *NotificationJob) error
}

type CheckoutSessionParams struct {
	DepositRequestID uuid.UUID
	BookingID        uuid.UUID
	Amount           deposit.Money
	Description      string
	CustomerEmail    string
	CustomerID       string
	SuccessURL       string
	CancelURL        string
}

type CheckoutSession struct {
	ID         string
	URL        string
	CustomerID string
}

// PaymentProvider is the hosted-checkout service. Implementations own their retry policy.
type PaymentProvider interface {
	// FindCustomerByEmail returns "" when no customer is known.
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
}
