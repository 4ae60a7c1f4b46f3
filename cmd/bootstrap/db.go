package bootstrap

import (
	"context"
	"log/slog"

	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB opens the shared pool. Both the API and the notification worker use it.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, closePool, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"host", cfg.DB.Host,
		"database", cfg.DB.DBName,
		"max_conns", pool.Config().MaxConns,
	)

	lc.Append(fx.StopHook(func(context.Context) {
		stat := pool.Stat()
		logger.Info("closing database pool",
			"acquired", stat.AcquiredConns(),
			"total", stat.TotalConns(),
		)
		closePool()
	}))
	return pool, nil
}
