package api

import (
	"errors"
	"io"
	"net/http"

	reqdto "booking-orchestrator/internal/handler/dto/request"
	resdto "booking-orchestrator/internal/handler/dto/response"
	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/handler/middleware"
	"booking-orchestrator/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DepositHandler struct {
	cmds commands.DepositCommands
}

func NewDepositHandler(cmds commands.DepositCommands) *DepositHandler {
	return &DepositHandler{cmds: cmds}
}

// @Summary Mark deposit paid
// @Description Records a confirmed provider payment for a deposit request. Idempotent.
// @Tags deposits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deposit request ID"
// @Param request body reqdto.MarkDepositPaidRequest false "Provider session"
// @Success 200 {object} resdto.Envelope
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/admin/deposits/{id}/paid [post]
func (h *DepositHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	var req reqdto.MarkDepositPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	res, err := h.cmds.MarkPaid(c.Request.Context(), id, req.CheckoutSessionID, middleware.GetActor(c))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	respondOK(c, resdto.FromMarkPaidResult(res))
}
