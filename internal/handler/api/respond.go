package api

import (
	"net/http"

	"booking-orchestrator/internal/domain/selection"
	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

// abortWithUseCaseError maps the use case taxonomy onto HTTP.
func abortWithUseCaseError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrUnauthorized):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Unauthorized", nil)
	case errs.Is(err, commands.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	case errs.Is(err, commands.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errs.Is(err, commands.ErrExpiredToken):
		httperr.AbortWithError(c, http.StatusGone, err, "Selection link expired", nil)
	case errs.Is(err, commands.ErrConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Selection changed, reload and retry", nil)
	case errs.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, validationMessage(err), validationDetail(err))
	case errs.Is(err, commands.ErrRuleMissing), errs.Is(err, commands.ErrInvalidDeposit):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Deposit cannot be computed", nil)
	case errs.Is(err, commands.ErrExternalService):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment provider unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func validationMessage(err error) string {
	var de *selection.DateError
	if errs.As(err, &de) {
		return de.Cause.Error()
	}
	return "Invalid request"
}

func validationDetail(err error) any {
	var de *selection.DateError
	if errs.As(err, &de) {
		return gin.H{"date": de.Value}
	}
	return gin.H{"reason": err.Error()}
}
