//go:build unit || e2e

package builder

import (
	"booking-orchestrator/internal/domain/deposit"

	"github.com/google/uuid"
)

type DepositRuleBuilder struct {
	ResourceType    string
	ResourceID      *uuid.UUID
	Mode            string
	Amount          int64
	IncludeChildren bool
	Currency        string
	Enabled         bool
}

// NewDepositRuleBuilder defaults to a flat 50.00 EUR trip rule.
func NewDepositRuleBuilder() *DepositRuleBuilder {
	return &DepositRuleBuilder{
		ResourceType: "trip",
		Mode:         string(deposit.ModeFlat),
		Amount:       5000,
		Currency:     "EUR",
		Enabled:      true,
	}
}

func (b *DepositRuleBuilder) With(mutate func(*DepositRuleBuilder)) *DepositRuleBuilder {
	mutate(b)
	return b
}

func (b *DepositRuleBuilder) ForResource(id uuid.UUID) *DepositRuleBuilder {
	b.ResourceID = &id
	return b
}

func (b *DepositRuleBuilder) BuildDomain() (deposit.Rule, error) {
	mode, err := deposit.NewMode(b.Mode, b.Amount, b.IncludeChildren)
	if err != nil {
		return deposit.Rule{}, err
	}
	source := deposit.SourceTypeDefault
	if b.ResourceID != nil {
		source = deposit.SourceResourceOverride
	}
	return deposit.Rule{
		ID:           uuid.New(),
		ResourceType: b.ResourceType,
		ResourceID:   b.ResourceID,
		Mode:         mode,
		Currency:     b.Currency,
		Enabled:      b.Enabled,
		Source:       source,
	}, nil
}
