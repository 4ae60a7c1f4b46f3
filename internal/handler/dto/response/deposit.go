package response

import (
	"booking-orchestrator/internal/usecase/commands"

	"github.com/google/uuid"
)

type MarkDepositPaidResponse struct {
	DepositRequestID uuid.UUID `json:"deposit_request_id"`
	FulfillmentID    uuid.UUID `json:"fulfillment_id"`
	Status           string    `json:"status"`
	AlreadyPaid      bool      `json:"already_paid"`
}

func FromMarkPaidResult(r *commands.MarkPaidResult) MarkDepositPaidResponse {
	return MarkDepositPaidResponse{
		DepositRequestID: r.DepositRequestID,
		FulfillmentID:    r.FulfillmentID,
		Status:           r.Status.String(),
		AlreadyPaid:      r.AlreadyPaid,
	}
}

// Envelope documents the success body for swagger.
type Envelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}
