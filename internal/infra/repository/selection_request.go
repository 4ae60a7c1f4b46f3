package repository

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/selection"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const selectionColumns = `id, booking_id, fulfillment_id, partner_id, proposed_dates, preferred_date,
	selected_date, status, token_hash, expires_at, selected_at, created_at, updated_at`

type SelectionRequestRepository struct {
	db db.DBTX
}

func NewSelectionRequestRepository(db db.DBTX) *SelectionRequestRepository {
	return &SelectionRequestRepository{db: db}
}

func (r *SelectionRequestRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*selection.Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectionColumns+` FROM selection_requests WHERE token_hash = $1`, tokenHash)
	req, err := scanSelection(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find selection request by token", err)
	}
	return req, nil
}

func (r *SelectionRequestRepository) FindByFulfillmentID(ctx context.Context, fulfillmentID uuid.UUID) (*selection.Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectionColumns+` FROM selection_requests WHERE fulfillment_id = $1`, fulfillmentID)
	req, err := scanSelection(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find selection request by fulfillment", err)
	}
	return req, nil
}

func (r *SelectionRequestRepository) Upsert(ctx context.Context, req *selection.Request) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO selection_requests (
			id, booking_id, fulfillment_id, partner_id, proposed_dates, preferred_date,
			selected_date, status, token_hash, expires_at, selected_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULL, $7, $8, $9, NULL, $10, $11)
		ON CONFLICT (fulfillment_id) DO UPDATE SET
			proposed_dates = EXCLUDED.proposed_dates,
			preferred_date = EXCLUDED.preferred_date,
			selected_date  = NULL,
			selected_at    = NULL,
			status         = EXCLUDED.status,
			token_hash     = EXCLUDED.token_hash,
			expires_at     = EXCLUDED.expires_at,
			updated_at     = EXCLUDED.updated_at
		RETURNING id`,
		req.ID,
		req.BookingID,
		req.FulfillmentID,
		req.PartnerID,
		datesToPgtype(req.ProposedDates),
		datePtrToPgtype(req.PreferredDate),
		req.Status.String(),
		req.TokenHash,
		req.ExpiresAt,
		req.CreatedAt,
		req.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to upsert selection request", err)
	}
	return id, nil
}

// MarkSelected moves a confirmable, unexpired request to selected in a single statement.
func (r *SelectionRequestRepository) MarkSelected(ctx context.Context, tokenHash string, date selection.Date, now time.Time) (*selection.Request, bool, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE selection_requests
		SET status = 'selected', selected_date = $2, selected_at = $3, updated_at = $3
		WHERE token_hash = $1
		  AND status = ANY($4::text[])
		  AND (status = 'selected' OR expires_at > $3)
		  AND $2 = ANY(proposed_dates)
		RETURNING `+selectionColumns,
		tokenHash,
		dateToPgtype(date),
		now,
		confirmableStatuses(),
	)
	req, err := scanSelection(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to mark selection request selected", err)
	}
	return req, true, nil
}

func (r *SelectionRequestRepository) MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE selection_requests
		SET status = 'expired', updated_at = $2
		WHERE id = $1 AND status NOT IN ('selected', 'expired') AND expires_at <= $2`,
		id, now)
	if err != nil {
		return infra.WrapRepoErr("failed to expire selection request", err)
	}
	return nil
}

func scanSelection(row pgx.Row) (*selection.Request, error) {
	var (
		req        selection.Request
		proposed   []pgtype.Date
		preferred  pgtype.Date
		selected   pgtype.Date
		status     string
		selectedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&req.ID,
		&req.BookingID,
		&req.FulfillmentID,
		&req.PartnerID,
		&proposed,
		&preferred,
		&selected,
		&status,
		&req.TokenHash,
		&req.ExpiresAt,
		&selectedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Status = selection.Status(status)
	req.ProposedDates = datesFromPgtype(proposed)
	req.PreferredDate = selection.DatePtr(pgconv.DatePtrFromPgtype(preferred))
	req.SelectedDate = selection.DatePtr(pgconv.DatePtrFromPgtype(selected))
	req.SelectedAt = pgconv.TimePtrFromPgtype(selectedAt)
	return &req, nil
}

func confirmableStatuses() []string {
	statuses := selection.ConfirmableStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

func dateToPgtype(d selection.Date) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: true}
}

func datePtrToPgtype(d *selection.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return dateToPgtype(*d)
}

func datesToPgtype(dates []selection.Date) []pgtype.Date {
	out := make([]pgtype.Date, len(dates))
	for i, d := range dates {
		out[i] = dateToPgtype(d)
	}
	return out
}

func datesFromPgtype(dates []pgtype.Date) []selection.Date {
	out := make([]selection.Date, 0, len(dates))
	for _, d := range dates {
		if !d.Valid {
			continue
		}
		out = append(out, selection.DateOf(d.Time))
	}
	return out
}
