package queue

import (
	"context"
	"log/slog"
	"time"

	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"
)

// Relay republishes outbox rows still queued after the grace period.
// Publishing is keyed by dedupe key, so a row the API already handed over is not enqueued twice.
type Relay struct {
	uow       shared.UnitOfWork
	publisher shared.NotificationPublisher
	clock     clock.Clock
	interval  time.Duration
	grace     time.Duration
	batch     int
}

const (
	defaultRelayInterval = 30 * time.Second
	defaultRelayBatch    = 100
)

func NewRelay(uow shared.UnitOfWork, publisher shared.NotificationPublisher, clk clock.Clock, cfg config.QueueConfig) *Relay {
	if cfg.RelayInterval <= 0 {
		cfg.RelayInterval = defaultRelayInterval
	}
	if cfg.RelayBatch <= 0 {
		cfg.RelayBatch = defaultRelayBatch
	}
	return &Relay{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		interval:  cfg.RelayInterval,
		grace:     cfg.RelayGrace,
		batch:     cfg.RelayBatch,
	}
}

// RelayOnce publishes one batch and reports how many jobs went out.
// A failed publish is logged and left queued for the next pass.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var jobs []*shared.NotificationJob
	err := r.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		jobs, err = tx.Notifications().ListQueued(ctx, r.clock.Now().Add(-r.grace), r.batch)
		return err
	})
	if err != nil {
		return 0, errs.Wrap(err, "list queued notifications")
	}

	published := 0
	for _, job := range jobs {
		if err := r.publisher.Publish(ctx, job); err != nil {
			slog.Warn("outbox relay publish failed", "dedupe_key", job.DedupeKey, "error", err.Error())
			continue
		}
		published++
	}
	if len(jobs) > 0 {
		slog.Info("outbox relay pass", "queued", len(jobs), "published", published)
	}
	return published, nil
}

// Run ticks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				slog.Error("outbox relay pass failed", "error", err.Error())
			}
		}
	}
}
