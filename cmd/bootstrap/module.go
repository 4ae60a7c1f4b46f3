package bootstrap

import (
	"booking-orchestrator/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	PaymentModule,
	QueueModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)

// WorkerModule is the subset the notification worker needs.
var WorkerModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	QueueModule,
	components.PersistenceModule,
	components.ClockModule,
)
