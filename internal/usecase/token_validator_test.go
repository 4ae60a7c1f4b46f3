//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"booking-orchestrator/internal/domain/user"
	"booking-orchestrator/internal/pkg/jwt"
	"booking-orchestrator/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator(t *testing.T) {
	svc := jwt.NewService("secret", time.Hour)
	v := usecase.NewTokenValidator(svc)

	t.Run("success: claims become the actor", func(t *testing.T) {
		id := uuid.New()
		token, err := svc.GenerateToken(id, user.RolePartner)
		require.NoError(t, err)

		actor, err := v.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.NewActor(id, user.RolePartner), actor)
	})

	t.Run("error: blank token", func(t *testing.T) {
		_, err := v.ValidateToken("")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("error: expired token", func(t *testing.T) {
		token, err := jwt.NewService("secret", -time.Hour).GenerateToken(uuid.New(), user.RoleAdmin)
		require.NoError(t, err)

		_, err = v.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})
}
