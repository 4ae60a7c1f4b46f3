package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// sessionPlaceholder is substituted by Stripe on redirect.
const sessionPlaceholder = "{CHECKOUT_SESSION_ID}"

var ErrNotConfigured = errs.New("payment provider is not configured")

// stripeAPI is the slice of the Stripe client this adapter uses.
type stripeAPI interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	FirstCustomerID(params *stripe.CustomerListParams) (string, error)
}

type StripeProvider struct {
	api    stripeAPI
	policy func(ctx context.Context) backoff.BackOff
}

func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	var api stripeAPI
	if cfg.SecretKey != "" {
		api = &clientAPI{sc: client.New(cfg.SecretKey, nil)}
	}
	return newStripeProvider(api, cfg)
}

func newStripeProvider(api stripeAPI, cfg config.StripeConfig) *StripeProvider {
	return &StripeProvider{
		api: api,
		policy: func(ctx context.Context) backoff.BackOff {
			exp := backoff.NewExponentialBackOff()
			if cfg.MaxElapsed > 0 {
				exp.MaxElapsedTime = cfg.MaxElapsed
			}
			return backoff.WithContext(backoff.WithMaxRetries(exp, cfg.MaxRetries), ctx)
		},
	}
}

func (p *StripeProvider) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	if p.api == nil {
		return "", ErrNotConfigured
	}

	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Filters.AddFilter("limit", "", "1")

	var id string
	err := p.retry(ctx, "customer lookup", func() error {
		var err error
		id, err = p.api.FirstCustomerID(params)
		return err
	})
	if err != nil {
		return "", errs.Wrap(err, "stripe customer lookup")
	}
	return id, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, in shared.CheckoutSessionParams) (*shared.CheckoutSession, error) {
	if p.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(in.Amount.Currency())),
					UnitAmount: stripe.Int64(in.Amount.Minor()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(withSessionPlaceholder(in.SuccessURL)),
		CancelURL:         stripe.String(withSessionPlaceholder(in.CancelURL)),
		ClientReferenceID: stripe.String(in.DepositRequestID.String()),
	}
	switch {
	case in.CustomerID != "":
		params.Customer = stripe.String(in.CustomerID)
	case in.CustomerEmail != "":
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata("deposit_request_id", in.DepositRequestID.String())
	params.AddMetadata("booking_id", in.BookingID.String())
	// Retries of the same deposit and amount resolve to the same session on Stripe's side.
	params.SetIdempotencyKey(fmt.Sprintf("deposit-%s-%d-%s", in.DepositRequestID, in.Amount.Minor(), in.Amount.Currency()))

	var s *stripe.CheckoutSession
	err := p.retry(ctx, "checkout session", func() error {
		var err error
		s, err = p.api.NewCheckoutSession(params)
		return err
	})
	if err != nil {
		return nil, errs.Wrap(err, "stripe checkout session")
	}

	out := &shared.CheckoutSession{ID: s.ID, URL: s.URL}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out, nil
}

func (p *StripeProvider) retry(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		slog.Warn("stripe call failed, retrying", "op", op, "attempt", attempt, "error", err.Error())
		return err
	}, p.policy(ctx))
}

// isRetryable treats rate limits, provider-side failures and transport errors as transient.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *stripe.Error
	if errors.As(err, &se) {
		return se.HTTPStatusCode == http.StatusTooManyRequests ||
			se.HTTPStatusCode >= http.StatusInternalServerError ||
			se.Type == stripe.ErrorTypeAPI
	}
	return true
}

func withSessionPlaceholder(u string) string {
	if u == "" || strings.Contains(u, sessionPlaceholder) {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "session_id=" + sessionPlaceholder
}

type clientAPI struct {
	sc *client.API
}

func (c *clientAPI) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return c.sc.CheckoutSessions.New(params)
}

func (c *clientAPI) FirstCustomerID(params *stripe.CustomerListParams) (string, error) {
	it := c.sc.Customers.List(params)
	if it.Next() {
		return it.Customer().ID, nil
	}
	return "", it.Err()
}
