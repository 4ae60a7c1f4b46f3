package repository

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/fulfillment"
	"booking-orchestrator/internal/domain/selection"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Booking, error) {
	var (
		b         fulfillment.Booking
		startDate pgtype.Date
		endDate   pgtype.Date
		pickupAt  pgtype.Timestamptz
		returnAt  pgtype.Timestamptz
		total     pgtype.Int8
		selected  pgtype.Date
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, label, customer_name, customer_email, customer_phone, lang,
		       start_date, end_date, pickup_at, return_at, adults, children,
		       total_price_cents, currency, selected_date
		FROM bookings WHERE id = $1`, id).Scan(
		&b.ID,
		&b.Label,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.Lang,
		&startDate,
		&endDate,
		&pickupAt,
		&returnAt,
		&b.Adults,
		&b.Children,
		&total,
		&b.Currency,
		&selected,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	b.StartDate = pgconv.DatePtrFromPgtype(startDate)
	b.EndDate = pgconv.DatePtrFromPgtype(endDate)
	b.PickupAt = pgconv.TimePtrFromPgtype(pickupAt)
	b.ReturnAt = pgconv.TimePtrFromPgtype(returnAt)
	b.TotalPrice = pgconv.Int64PtrFromPgtype(total)
	b.SelectedDate = pgconv.DatePtrFromPgtype(selected)
	return &b, nil
}

func (r *BookingRepository) SetSelectedDate(ctx context.Context, id uuid.UUID, date selection.Date, now time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET selected_date = $2, updated_at = $3 WHERE id = $1`,
		id, dateToPgtype(date), now)
	if err != nil {
		return infra.WrapRepoErr("failed to set booking selected date", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoError(infra.KindNotFound, "booking not found", nil)
	}
	return nil
}
