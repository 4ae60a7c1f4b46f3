package commands

import (
	"context"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

// DepositRuleResolver returns the enabled per-resource override, else the enabled type default.
// A nil rule means none is configured.
type DepositRuleResolver interface {
	Resolve(ctx context.Context, resourceType string, resourceID uuid.UUID) (*deposit.Rule, error)
}

type depositRuleResolverImpl struct {
	uow shared.UnitOfWork
}

func NewDepositRuleResolver(uow shared.UnitOfWork) DepositRuleResolver {
	return &depositRuleResolverImpl{uow: uow}
}

func (r *depositRuleResolverImpl) Resolve(ctx context.Context, resourceType string, resourceID uuid.UUID) (*deposit.Rule, error) {
	var rule *deposit.Rule
	err := r.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		if resourceID != uuid.Nil {
			override, err := tx.DepositRules().FindEnabledOverride(ctx, resourceType, resourceID)
			if err == nil {
				rule = override
				return nil
			}
			if !infra.IsNotFound(err) {
				return err
			}
		}

		def, err := tx.DepositRules().FindEnabledDefault(ctx, resourceType)
		if err == nil {
			rule = def
			return nil
		}
		if infra.IsNotFound(err) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rule, nil
}
