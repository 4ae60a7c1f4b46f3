package bootstrap

import (
	"booking-orchestrator/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	ConfigPartsOption,
)

// ConfigPartsOption splits Config into the sections constructors depend on.
var ConfigPartsOption = fx.Provide(
	func(cfg config.Config) config.SelectionConfig { return cfg.Selection },
	func(cfg config.Config) config.DepositConfig { return cfg.Deposit },
	func(cfg config.Config) config.StripeConfig { return cfg.Stripe },
	func(cfg config.Config) config.QueueConfig { return cfg.Queue },
)
