package commands

import (
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/errs"
)

var (
	ErrUnauthorized            = errs.New("authentication required")
	ErrForbidden               = errs.New("forbidden")
	ErrNotFound                = errs.New("not found")
	ErrValidation              = errs.New("validation failed")
	ErrExpiredToken            = errs.New("selection link expired")
	ErrConflict                = errs.New("selection changed concurrently, reload and retry")
	ErrRuleMissing             = errs.New("no deposit rule configured")
	ErrInvalidDeposit          = errs.New("invalid deposit amount")
	ErrExternalService         = errs.New("payment provider unavailable")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// repoErr maps repository failures onto the use case taxonomy.
func repoErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if infra.IsNotFound(err) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

func validationErr(err error) error {
	return errs.Mark(err, ErrValidation)
}
