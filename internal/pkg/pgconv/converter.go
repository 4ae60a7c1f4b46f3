package pgconv

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func ptrIf[T any](v T, valid bool) *T {
	if !valid {
		return nil
	}
	return &v
}

func UUIDPtrFromPgtype(pu pgtype.UUID) *uuid.UUID {
	return ptrIf(uuid.UUID(pu.Bytes), pu.Valid)
}

// StringFromPgtype maps NULL to "".
func StringFromPgtype(pt pgtype.Text) string {
	return pt.String
}

// StringToPgtype maps "" to NULL.
func StringToPgtype(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func TimePtrFromPgtype(pt pgtype.Timestamptz) *time.Time {
	return ptrIf(pt.Time, pt.Valid)
}

// DatePtrFromPgtype pins calendar dates to UTC midnight regardless of the session zone.
func DatePtrFromPgtype(pd pgtype.Date) *time.Time {
	y, m, d := pd.Time.Date()
	return ptrIf(time.Date(y, m, d, 0, 0, 0, 0, time.UTC), pd.Valid)
}

func Int64PtrFromPgtype(pi pgtype.Int8) *int64 {
	return ptrIf(pi.Int64, pi.Valid)
}

// IsNoRows checks if the error is a "no rows" error from either sql or pgx
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
