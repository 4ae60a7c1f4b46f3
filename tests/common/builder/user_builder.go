//go:build unit || e2e

package builder

import (
	"booking-orchestrator/internal/domain/user"

	"github.com/google/uuid"
)

type ActorBuilder struct {
	UserID uuid.UUID
	Role   string
}

func NewActorBuilder() *ActorBuilder {
	return &ActorBuilder{
		UserID: uuid.New(),
		Role:   "partner",
	}
}

func (a *ActorBuilder) With(mutate func(*ActorBuilder)) *ActorBuilder {
	mutate(a)
	return a
}

func (a *ActorBuilder) WithRole(role string) *ActorBuilder {
	a.Role = role
	return a
}

func (a *ActorBuilder) AsAdmin() *ActorBuilder {
	a.Role = "admin"
	return a
}

func (a *ActorBuilder) Build() user.Actor {
	role, err := user.NewRole(a.Role)
	if err != nil {
		role = user.RoleCustomer
	}
	return user.Actor{UserID: a.UserID, Role: role}
}
