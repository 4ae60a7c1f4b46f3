package components

import (
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/usecase"
	"booking-orchestrator/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	ClockModule,
	usecaseServicesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var ClockModule = fx.Provide(
	clock.NewRealClock,
)

var usecaseServicesModule = fx.Module("usecase/services",
	fx.Provide(
		commands.NewAuthorizationGuard,
		commands.NewDepositRuleResolver,
		commands.NewNotificationEnqueuer,
		commands.NewCheckoutManager,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewDateSelectionUseCase,
		commands.NewDepositUseCase,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
