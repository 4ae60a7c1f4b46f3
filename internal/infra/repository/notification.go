package repository

import (
	"context"
	"time"

	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(db db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, job *shared.NotificationJob) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO notification_jobs (id, kind, topic, dedupe_key, payload, status, run_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (dedupe_key) DO NOTHING`,
		job.ID,
		job.Kind,
		job.Topic,
		job.DedupeKey,
		job.Payload,
		string(shared.NotificationQueued),
		job.RunAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to create notification job", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *NotificationRepository) ListQueued(ctx context.Context, olderThan time.Time, limit int) ([]*shared.NotificationJob, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, kind, topic, dedupe_key, payload, status, run_at
		FROM notification_jobs
		WHERE status = $1 AND run_at <= $2
		ORDER BY run_at, id
		LIMIT $3`,
		string(shared.NotificationQueued), olderThan, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list queued notification jobs", err)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*shared.NotificationJob, error) {
		var (
			job    shared.NotificationJob
			status string
		)
		if err := row.Scan(&job.ID, &job.Kind, &job.Topic, &job.DedupeKey, &job.Payload, &status, &job.RunAt); err != nil {
			return nil, err
		}
		job.Status = shared.NotificationJobStatus(status)
		return &job, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan notification jobs", err)
	}
	return jobs, nil
}

// MarkSent blanks the payload; a date-options payload embeds the raw selection token.
func (r *NotificationRepository) MarkSent(ctx context.Context, dedupeKey string, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET status = $2, payload = '{}'::jsonb, last_error = NULL, attempts = attempts + 1, updated_at = $3
		WHERE dedupe_key = $1`,
		dedupeKey, string(shared.NotificationSent), now)
	return notificationUpdated(tag, err)
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, dedupeKey string, lastError string, now time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET status = $2, last_error = $3, attempts = attempts + 1, updated_at = $4
		WHERE dedupe_key = $1`,
		dedupeKey, string(shared.NotificationFailed), lastError, now)
	return notificationUpdated(tag, err)
}

func notificationUpdated(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoError(infra.KindNotFound, "notification job not found", nil)
	}
	return nil
}
