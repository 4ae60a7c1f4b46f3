package commands

import (
	"context"

	"booking-orchestrator/internal/domain/user"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

// AuthorizationGuard decides whether an actor may act for a partner.
type AuthorizationGuard interface {
	RequirePartnerAccess(ctx context.Context, actor user.Actor, partnerID uuid.UUID) error
	RequireAdmin(actor user.Actor) error
}

type authorizationGuardImpl struct {
	uow shared.UnitOfWork
}

func NewAuthorizationGuard(uow shared.UnitOfWork) AuthorizationGuard {
	return &authorizationGuardImpl{uow: uow}
}

func (g *authorizationGuardImpl) RequirePartnerAccess(ctx context.Context, actor user.Actor, partnerID uuid.UUID) error {
	if actor.IsAnonymous() {
		return ErrUnauthorized
	}
	if actor.IsAdmin() {
		return nil
	}

	var member bool
	err := g.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		member, err = tx.PartnerMembers().IsMember(ctx, partnerID, actor.UserID)
		return err
	})
	if err != nil {
		return repoErr(err, ErrForbidden)
	}
	if !member {
		return ErrForbidden
	}
	return nil
}

func (g *authorizationGuardImpl) RequireAdmin(actor user.Actor) error {
	if actor.IsAnonymous() {
		return ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
