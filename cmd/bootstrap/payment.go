package bootstrap

import (
	"log/slog"

	"booking-orchestrator/internal/infra/payment"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/usecase/shared"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		NewPaymentProvider,
	),
)

func NewPaymentProvider(cfg config.StripeConfig, logger *slog.Logger) shared.PaymentProvider {
	if cfg.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is empty, checkout links will fail")
	}
	return payment.NewStripeProvider(cfg)
}
