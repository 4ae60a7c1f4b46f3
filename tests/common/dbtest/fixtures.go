//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestPartner(t *testing.T, conn db.DBTX, id uuid.UUID, name string) uuid.UUID {
	t.Helper()

	_, err := conn.Exec(context.Background(),
		"INSERT INTO partners (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING", id, name)
	require.NoError(t, err)
	return id
}

func AddPartnerMember(t *testing.T, conn db.DBTX, partnerID, userID uuid.UUID) {
	t.Helper()

	_, err := conn.Exec(context.Background(),
		"INSERT INTO partner_members (partner_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", partnerID, userID)
	require.NoError(t, err)
}

// InsertTrip writes the partner, booking and fulfillment described by b.
func InsertTrip(t *testing.T, conn db.DBTX, b *builder.TripBuilder) {
	t.Helper()
	ctx := context.Background()

	CreateTestPartner(t, conn, b.PartnerID, "Partner "+b.PartnerID.String()[:8])

	bk := b.BuildBooking()
	_, err := conn.Exec(ctx, `
		INSERT INTO bookings (id, label, customer_name, customer_email, customer_phone, lang,
		                      start_date, end_date, pickup_at, return_at, adults, children,
		                      total_price_cents, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		bk.ID, bk.Label, bk.CustomerName, bk.CustomerEmail, bk.CustomerPhone, bk.Lang,
		bk.StartDate, bk.EndDate, bk.PickupAt, bk.ReturnAt, bk.Adults, bk.Children,
		bk.TotalPrice, bk.Currency)
	require.NoError(t, err)

	f := b.BuildFulfillment()
	_, err = conn.Exec(ctx, `
		INSERT INTO fulfillments (id, booking_id, partner_id, resource_type, resource_id, status,
		                          contact_revealed, reference, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID, f.BookingID, f.PartnerID, f.ResourceType, f.ResourceID, string(f.Status),
		f.ContactRevealed, f.Reference, f.Summary)
	require.NoError(t, err)
}

func InsertDepositRule(t *testing.T, conn db.DBTX, b *builder.DepositRuleBuilder) uuid.UUID {
	t.Helper()

	_, err := deposit.NewMode(b.Mode, b.Amount, b.IncludeChildren)
	require.NoError(t, err, "fixture rule must be valid")

	id := uuid.New()
	_, err = conn.Exec(context.Background(), `
		INSERT INTO deposit_rules (id, resource_type, resource_id, mode, amount, currency, include_children, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, b.ResourceType, b.ResourceID, b.Mode, b.Amount, b.Currency, b.IncludeChildren, b.Enabled)
	require.NoError(t, err)
	return id
}

func CountNotifications(t *testing.T, conn db.DBTX, topic string) int {
	t.Helper()

	var n int
	err := conn.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&n)
	require.NoError(t, err)
	return n
}

// tables that survive a reset
var keptTables = []string{"schema_migrations"}

var (
	tablesOnce sync.Once
	tables     []string
	tablesErr  error
)

// ResetDB empties every application table. The table list is read once per process.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tablesOnce.Do(func() {
		tables, tablesErr = listTables(ctx, pool)
	})
	if tablesErr != nil {
		return fmt.Errorf("list tables: %w", tablesErr)
	}
	if len(tables) == 0 {
		return nil
	}

	_, err := pool.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	return err
}

func listTables(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx, `
		SELECT 'public.' || quote_ident(tablename)
		FROM pg_tables
		WHERE schemaname = 'public' AND NOT (tablename = ANY($1))
		ORDER BY tablename`, keptTables)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
