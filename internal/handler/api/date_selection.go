package api

import (
	"net/http"

	reqdto "booking-orchestrator/internal/handler/dto/request"
	resdto "booking-orchestrator/internal/handler/dto/response"
	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/handler/middleware"
	"booking-orchestrator/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type DateSelectionHandler struct {
	cmds commands.DateSelectionCommands
}

func NewDateSelectionHandler(cmds commands.DateSelectionCommands) *DateSelectionHandler {
	return &DateSelectionHandler{cmds: cmds}
}

// @Summary Trip date selection
// @Description send_options (partner, bearer token) proposes dates; preview, confirm and checkout are driven by the customer's selection token
// @Tags date-selection
// @Accept json
// @Produce json
// @Param request body reqdto.DateSelectionRequest true "Action and its fields"
// @Success 200 {object} resdto.Envelope
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /api/trip-date-selection [post]
func (h *DateSelectionHandler) Handle(c *gin.Context) {
	var req reqdto.DateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	ctx := c.Request.Context()
	switch req.Action {
	case reqdto.ActionSendOptions:
		res, err := h.cmds.SendOptions(ctx, req.ToSendOptionsInput(), middleware.GetActor(c))
		if err != nil {
			abortWithUseCaseError(c, err)
			return
		}
		respondOK(c, resdto.FromSendOptionsResult(res))

	case reqdto.ActionPreview:
		res, err := h.cmds.Preview(ctx, req.Token, req.Lang)
		if err != nil {
			abortWithUseCaseError(c, err)
			return
		}
		respondOK(c, resdto.FromPreviewResult(res))

	case reqdto.ActionConfirm:
		res, err := h.cmds.Confirm(ctx, req.Token, req.SelectedDate)
		if err != nil {
			abortWithUseCaseError(c, err)
			return
		}
		respondOK(c, resdto.FromConfirmResult(res))

	case reqdto.ActionCheckout:
		res, err := h.cmds.Checkout(ctx, req.Token)
		if err != nil {
			abortWithUseCaseError(c, err)
			return
		}
		respondOK(c, resdto.FromConfirmResult(res))
	}
}
