package repository

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/pgconv"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const depositColumns = `id, fulfillment_id, partner_id, booking_id, resource_type, resource_id,
	amount_cents, currency, status, checkout_session_id, checkout_url, provider_customer_id,
	customer_name, customer_email, customer_phone, fulfillment_reference, fulfillment_summary, lang,
	paid_at, created_at, updated_at`

type DepositRequestRepository struct {
	db db.DBTX
}

func NewDepositRequestRepository(db db.DBTX) *DepositRequestRepository {
	return &DepositRequestRepository{db: db}
}

func (r *DepositRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*deposit.Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposit_requests WHERE id = $1`, id)
	req, err := scanDeposit(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find deposit request", err)
	}
	return req, nil
}

func (r *DepositRequestRepository) FindByFulfillmentID(ctx context.Context, fulfillmentID uuid.UUID) (*deposit.Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposit_requests WHERE fulfillment_id = $1`, fulfillmentID)
	req, err := scanDeposit(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find deposit request by fulfillment", err)
	}
	return req, nil
}

// UpsertPending keeps the creation-time customer snapshot when overwriting an existing pending row.
func (r *DepositRequestRepository) UpsertPending(ctx context.Context, req *deposit.Request) (*deposit.Request, bool, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO deposit_requests (
			id, fulfillment_id, partner_id, booking_id, resource_type, resource_id,
			amount_cents, currency, status,
			customer_name, customer_email, customer_phone, fulfillment_reference, fulfillment_summary, lang,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (fulfillment_id) DO UPDATE SET
			amount_cents        = EXCLUDED.amount_cents,
			currency            = EXCLUDED.currency,
			status              = 'pending',
			checkout_session_id = NULL,
			checkout_url        = NULL,
			updated_at          = EXCLUDED.updated_at
		WHERE deposit_requests.status <> 'paid'
		RETURNING `+depositColumns,
		req.ID,
		req.FulfillmentID,
		req.PartnerID,
		req.BookingID,
		req.ResourceType,
		req.ResourceID,
		req.Amount.Minor(),
		req.Amount.Currency(),
		req.Customer.Name,
		req.Customer.Email,
		req.Customer.Phone,
		req.Customer.FulfillmentReference,
		req.Customer.FulfillmentSummary,
		req.Customer.Lang,
		req.CreatedAt,
		req.UpdatedAt,
	)
	saved, err := scanDeposit(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to upsert pending deposit request", err)
	}
	return saved, true, nil
}

func (r *DepositRequestRepository) AttachCheckout(ctx context.Context, id uuid.UUID, checkout shared.CheckoutAttachment, now time.Time) error {
	var (
		sql  string
		args []any
	)
	if checkout.SkipCustomerID {
		sql = `UPDATE deposit_requests
			SET checkout_session_id = $2, checkout_url = $3, updated_at = $4
			WHERE id = $1 AND status = 'pending'`
		args = []any{id, checkout.SessionID, checkout.URL, now}
	} else {
		sql = `UPDATE deposit_requests
			SET checkout_session_id = $2, checkout_url = $3, provider_customer_id = $4, updated_at = $5
			WHERE id = $1 AND status = 'pending'`
		args = []any{id, checkout.SessionID, checkout.URL, pgconv.StringToPgtype(checkout.CustomerID), now}
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return infra.WrapRepoErr("failed to attach checkout session", err)
	}
	return nil
}

func (r *DepositRequestRepository) MarkPaid(ctx context.Context, id uuid.UUID, sessionID string, now time.Time) (*deposit.Request, bool, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE deposit_requests
		SET status = 'paid',
		    paid_at = $3,
		    checkout_session_id = COALESCE($2, checkout_session_id),
		    updated_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING `+depositColumns,
		id, pgconv.StringToPgtype(sessionID), now)
	paid, err := scanDeposit(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to mark deposit request paid", err)
	}
	return paid, true, nil
}

func scanDeposit(row pgx.Row) (*deposit.Request, error) {
	var (
		req         deposit.Request
		amountCents int64
		currency    string
		status      string
		sessionID   pgtype.Text
		checkoutURL pgtype.Text
		customerID  pgtype.Text
		paidAt      pgtype.Timestamptz
	)
	err := row.Scan(
		&req.ID,
		&req.FulfillmentID,
		&req.PartnerID,
		&req.BookingID,
		&req.ResourceType,
		&req.ResourceID,
		&amountCents,
		&currency,
		&status,
		&sessionID,
		&checkoutURL,
		&customerID,
		&req.Customer.Name,
		&req.Customer.Email,
		&req.Customer.Phone,
		&req.Customer.FulfillmentReference,
		&req.Customer.FulfillmentSummary,
		&req.Customer.Lang,
		&paidAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Amount = deposit.NewMoney(amountCents, currency)
	req.Status = deposit.Status(status)
	req.CheckoutSessionID = pgconv.StringFromPgtype(sessionID)
	req.CheckoutURL = pgconv.StringFromPgtype(checkoutURL)
	req.ProviderCustomerID = pgconv.StringFromPgtype(customerID)
	req.PaidAt = pgconv.TimePtrFromPgtype(paidAt)
	return &req, nil
}
