package repository

import (
	"context"

	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"

	"github.com/google/uuid"
)

type PartnerMemberRepository struct {
	db db.DBTX
}

func NewPartnerMemberRepository(db db.DBTX) *PartnerMemberRepository {
	return &PartnerMemberRepository{db: db}
}

func (r *PartnerMemberRepository) IsMember(ctx context.Context, partnerID, userID uuid.UUID) (bool, error) {
	var member bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM partner_members WHERE partner_id = $1 AND user_id = $2)`,
		partnerID, userID).Scan(&member)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check partner membership", err)
	}
	return member, nil
}
