package usecase

import (
	"booking-orchestrator/internal/domain/user"
	"booking-orchestrator/internal/pkg/jwt"
)

// TokenValidator turns a bearer credential into the calling actor for middleware.
type TokenValidator interface {
	ValidateToken(tokenString string) (user.Actor, error)
}

type sessionTokenValidator struct {
	verifier *jwt.Service
}

func NewTokenValidator(verifier *jwt.Service) TokenValidator {
	return sessionTokenValidator{verifier: verifier}
}

// ValidateToken never yields an anonymous actor; a blank token is invalid.
func (v sessionTokenValidator) ValidateToken(raw string) (user.Actor, error) {
	if raw == "" {
		return user.Actor{}, jwt.ErrInvalidToken
	}
	claims, err := v.verifier.ValidateToken(raw)
	if err != nil {
		return user.Actor{}, err
	}
	role, err := user.NewRole(claims.Role)
	if err != nil {
		return user.Actor{}, jwt.ErrInvalidToken
	}
	return user.NewActor(claims.UserID, role), nil
}
