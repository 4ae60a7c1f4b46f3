package request

type MarkDepositPaidRequest struct {
	CheckoutSessionID string `json:"checkout_session_id" binding:"max=255"`
}
