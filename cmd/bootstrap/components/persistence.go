package components

import (
	"booking-orchestrator/internal/infra/uow"

	"go.uber.org/fx"
)

// Repositories are bound per transaction inside the unit of work, so only the UoW is provided.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)
