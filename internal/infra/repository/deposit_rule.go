package repository

import (
	"context"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const ruleColumns = `id, resource_type, resource_id, mode, amount, currency, include_children, enabled`

type DepositRuleRepository struct {
	db db.DBTX
}

func NewDepositRuleRepository(db db.DBTX) *DepositRuleRepository {
	return &DepositRuleRepository{db: db}
}

func (r *DepositRuleRepository) FindEnabledOverride(ctx context.Context, resourceType string, resourceID uuid.UUID) (*deposit.Rule, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+ruleColumns+` FROM deposit_rules
		WHERE resource_type = $1 AND resource_id = $2 AND enabled`,
		resourceType, resourceID)
	rule, err := scanRule(row, deposit.SourceResourceOverride)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *DepositRuleRepository) FindEnabledDefault(ctx context.Context, resourceType string) (*deposit.Rule, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+ruleColumns+` FROM deposit_rules
		WHERE resource_type = $1 AND resource_id IS NULL AND enabled`,
		resourceType)
	rule, err := scanRule(row, deposit.SourceTypeDefault)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func scanRule(row pgx.Row, source deposit.RuleSource) (*deposit.Rule, error) {
	var (
		rule            deposit.Rule
		resourceID      pgtype.UUID
		mode            string
		amount          int64
		includeChildren bool
	)
	err := row.Scan(&rule.ID, &rule.ResourceType, &resourceID, &mode, &amount, &rule.Currency, &includeChildren, &rule.Enabled)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find deposit rule", err)
	}

	rule.Mode, err = deposit.NewMode(mode, amount, includeChildren)
	if err != nil {
		return nil, infra.NewRepoError(infra.KindDBFailure, "stored deposit rule is invalid", err)
	}
	rule.ResourceID = pgconv.UUIDPtrFromPgtype(resourceID)
	rule.Source = source
	return &rule, nil
}
