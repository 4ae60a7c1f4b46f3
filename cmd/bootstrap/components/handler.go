package components

import (
	"booking-orchestrator/internal/handler"
	"booking-orchestrator/internal/handler/api"
	"booking-orchestrator/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewDateSelectionHandler,
		api.NewDepositHandler,
		middleware.NewAuthMiddleware,
		func(ds *api.DateSelectionHandler, dep *api.DepositHandler) handler.Handlers {
			return handler.Handlers{DateSelection: ds, Deposit: dep}
		},
	),
	fx.Invoke(handler.NewRouter),
)
