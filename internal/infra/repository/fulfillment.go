package repository

import (
	"context"
	"encoding/json"
	"time"

	"booking-orchestrator/internal/domain/fulfillment"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const fulfillmentColumns = `id, booking_id, partner_id, resource_type, resource_id, status,
	contact_revealed, reference, summary, stay_from, stay_to, updated_at`

type FulfillmentRepository struct {
	db db.DBTX
}

func NewFulfillmentRepository(db db.DBTX) *FulfillmentRepository {
	return &FulfillmentRepository{db: db}
}

func (r *FulfillmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Fulfillment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+fulfillmentColumns+` FROM fulfillments WHERE id = $1`, id)
	f, err := scanFulfillment(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find fulfillment", err)
	}
	return f, nil
}

func (r *FulfillmentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID, resourceType string) (*fulfillment.Fulfillment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+fulfillmentColumns+`
		FROM fulfillments
		WHERE booking_id = $1
		ORDER BY (resource_type = $2) DESC, created_at ASC
		LIMIT 1`,
		bookingID, resourceType)
	f, err := scanFulfillment(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find fulfillment by booking", err)
	}
	return f, nil
}

// UpdateSelectionView writes the projection under details.date_selection, leaving other keys alone.
func (r *FulfillmentRepository) UpdateSelectionView(ctx context.Context, id uuid.UUID, view fulfillment.SelectionView) error {
	body, err := json.Marshal(view)
	if err != nil {
		return errs.Wrap(err, "marshal selection view")
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE fulfillments
		SET details = jsonb_set(COALESCE(details, '{}'::jsonb), '{date_selection}', $2::jsonb, true),
		    updated_at = $3
		WHERE id = $1`,
		id, string(body), view.UpdatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update fulfillment selection view", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoError(infra.KindNotFound, "fulfillment not found", nil)
	}
	return nil
}

func (r *FulfillmentRepository) Accept(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE fulfillments
		SET status = 'accepted', contact_revealed = true, updated_at = $2
		WHERE id = $1
		  AND status IN ('pending', 'accepted')
		  AND NOT (status = 'accepted' AND contact_revealed)`,
		id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to accept fulfillment", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanFulfillment(row pgx.Row) (*fulfillment.Fulfillment, error) {
	var (
		f        fulfillment.Fulfillment
		status   string
		stayFrom pgtype.Date
		stayTo   pgtype.Date
	)
	err := row.Scan(
		&f.ID,
		&f.BookingID,
		&f.PartnerID,
		&f.ResourceType,
		&f.ResourceID,
		&status,
		&f.ContactRevealed,
		&f.Reference,
		&f.Summary,
		&stayFrom,
		&stayTo,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Status = fulfillment.Status(status)
	f.StayFrom = pgconv.DatePtrFromPgtype(stayFrom)
	f.StayTo = pgconv.DatePtrFromPgtype(stayTo)
	return &f, nil
}
