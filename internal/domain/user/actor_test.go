//go:build unit

package user_test

import (
	"testing"

	"booking-orchestrator/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		in      string
		want    user.Role
		wantErr bool
	}{
		{in: "partner", want: user.RolePartner},
		{in: " Admin ", want: user.RoleAdmin},
		{in: "customer", want: user.RoleCustomer},
		{in: "operator", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := user.NewRole(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, user.ErrInvalidRole)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActor(t *testing.T) {
	assert.True(t, user.Actor{}.IsAnonymous())
	assert.False(t, user.Actor{}.IsAdmin())

	admin := user.NewActor(uuid.New(), user.RoleAdmin)
	assert.False(t, admin.IsAnonymous())
	assert.True(t, admin.IsAdmin())
	assert.False(t, user.NewActor(uuid.New(), user.RolePartner).IsAdmin())
}
