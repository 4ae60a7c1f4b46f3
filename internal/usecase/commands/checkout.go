package commands

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/domain/fulfillment"
	"booking-orchestrator/internal/domain/selection"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type CheckoutInput struct {
	Fulfillment *fulfillment.Fulfillment
	Booking     *fulfillment.Booking
	// SelectedDate is echoed into the customer notification when known.
	SelectedDate *selection.Date
	Lang         string
}

type CheckoutLink struct {
	DepositRequestID uuid.UUID
	CheckoutURL      string
	Amount           deposit.Money
	Status           deposit.Status
	Reused           bool
}

// CheckoutManager creates or reuses the hosted checkout for a fulfillment's deposit.
type CheckoutManager interface {
	EnsureCheckout(ctx context.Context, in CheckoutInput) (*CheckoutLink, error)
}

type checkoutManagerImpl struct {
	uow      shared.UnitOfWork
	rules    DepositRuleResolver
	provider shared.PaymentProvider
	notifier NotificationEnqueuer
	cfg      config.DepositConfig
	clock    clock.Clock
}

func NewCheckoutManager(
	uow shared.UnitOfWork,
	rules DepositRuleResolver,
	provider shared.PaymentProvider,
	notifier NotificationEnqueuer,
	cfg config.DepositConfig,
	clk clock.Clock,
) CheckoutManager {
	return &checkoutManagerImpl{
		uow:      uow,
		rules:    rules,
		provider: provider,
		notifier: notifier,
		cfg:      cfg,
		clock:    clk,
	}
}

func (m *checkoutManagerImpl) EnsureCheckout(ctx context.Context, in CheckoutInput) (*CheckoutLink, error) {
	f, b := in.Fulfillment, in.Booking

	existing, err := m.findDeposit(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsPaid() {
		return linkFrom(existing, true), nil
	}

	amount, err := m.computeAmount(ctx, f, b)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.CanReuse(amount) {
		slog.Info("reusing pending checkout",
			"deposit_request_id", existing.ID,
			"fulfillment_id", f.ID)
		m.notifyRequested(ctx, existing, in)
		return linkFrom(existing, true), nil
	}

	saved, err := m.persistPending(ctx, existing, amount, in)
	if err != nil {
		return nil, err
	}
	if saved.IsPaid() {
		return linkFrom(saved, true), nil
	}

	session, err := m.openSession(ctx, saved, b)
	if err != nil {
		return nil, err
	}

	if err := m.attach(ctx, saved, session); err != nil {
		return nil, err
	}

	slog.Info("checkout session created",
		"deposit_request_id", saved.ID,
		"fulfillment_id", f.ID,
		"amount", saved.Amount.String())

	m.notifyRequested(ctx, saved, in)
	return linkFrom(saved, false), nil
}

func (m *checkoutManagerImpl) findDeposit(ctx context.Context, fulfillmentID uuid.UUID) (*deposit.Request, error) {
	var found *deposit.Request
	err := m.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		d, err := tx.Deposits().FindByFulfillmentID(ctx, fulfillmentID)
		if err != nil {
			if infra.IsNotFound(err) {
				return nil
			}
			return err
		}
		found = d
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return found, nil
}

func (m *checkoutManagerImpl) computeAmount(ctx context.Context, f *fulfillment.Fulfillment, b *fulfillment.Booking) (deposit.Money, error) {
	rule, err := m.rules.Resolve(ctx, f.ResourceType, f.ResourceID)
	if err != nil {
		return deposit.Money{}, err
	}
	if rule == nil {
		return deposit.Money{}, errs.Wrapf(ErrRuleMissing, "resource type %q", f.ResourceType)
	}

	amount, err := deposit.Amount(*rule, f.DepositFacts(*b))
	if err != nil {
		return deposit.Money{}, errs.Mark(err, ErrInvalidDeposit)
	}
	return amount, nil
}

// persistPending writes the pending row before any provider call so a crash leaves a retryable row.
func (m *checkoutManagerImpl) persistPending(ctx context.Context, existing *deposit.Request, amount deposit.Money, in CheckoutInput) (*deposit.Request, error) {
	f, b := in.Fulfillment, in.Booking
	now := m.clock.Now()

	req := &deposit.Request{
		ID:            uuid.New(),
		FulfillmentID: f.ID,
		PartnerID:     f.PartnerID,
		BookingID:     f.BookingID,
		ResourceType:  f.ResourceType,
		ResourceID:    f.ResourceID,
		Amount:        amount,
		Status:        deposit.StatusPending,
		Customer:      f.CustomerSnapshot(*b, in.Lang),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if existing != nil {
		req.ID = existing.ID
		req.CreatedAt = existing.CreatedAt
	}

	var saved *deposit.Request
	err := m.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		row, ok, err := tx.Deposits().UpsertPending(ctx, req)
		if err != nil {
			return err
		}
		if ok {
			saved = row
			return nil
		}
		// paid in the meantime
		saved, err = tx.Deposits().FindByFulfillmentID(ctx, f.ID)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return saved, nil
}

func (m *checkoutManagerImpl) openSession(ctx context.Context, req *deposit.Request, b *fulfillment.Booking) (*shared.CheckoutSession, error) {
	var customerID string
	if req.Customer.Email != "" {
		id, err := m.provider.FindCustomerByEmail(ctx, req.Customer.Email)
		if err != nil {
			slog.Warn("customer lookup failed, continuing without",
				"deposit_request_id", req.ID,
				"error", err.Error())
		} else {
			customerID = id
		}
	}

	params := shared.CheckoutSessionParams{
		DepositRequestID: req.ID,
		BookingID:        req.BookingID,
		Amount:           req.Amount,
		Description:      checkoutDescription(req, b),
		CustomerEmail:    req.Customer.Email,
		CustomerID:       customerID,
		SuccessURL:       redirectURL(m.cfg.SuccessURL, req),
		CancelURL:        redirectURL(m.cfg.CancelURL, req),
	}

	session, err := m.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		slog.Error("checkout session creation failed",
			"deposit_request_id", req.ID,
			"error", err.Error())
		return nil, errs.Mark(err, ErrExternalService)
	}
	if session.CustomerID == "" {
		session.CustomerID = customerID
	}
	return session, nil
}

func (m *checkoutManagerImpl) attach(ctx context.Context, req *deposit.Request, session *shared.CheckoutSession) error {
	now := m.clock.Now()
	att := shared.CheckoutAttachment{
		SessionID:  session.ID,
		URL:        session.URL,
		CustomerID: session.CustomerID,
	}

	err := m.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Deposits().AttachCheckout(ctx, req.ID, att, now)
	})
	if err != nil {
		slog.Warn("attaching checkout with customer id failed, retrying without",
			"deposit_request_id", req.ID,
			"error", err.Error())
		att.SkipCustomerID = true
		err = m.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Deposits().AttachCheckout(ctx, req.ID, att, now)
		})
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	req.CheckoutSessionID = att.SessionID
	req.CheckoutURL = att.URL
	if !att.SkipCustomerID {
		req.ProviderCustomerID = att.CustomerID
	}
	req.UpdatedAt = now
	return nil
}

func (m *checkoutManagerImpl) notifyRequested(ctx context.Context, req *deposit.Request, in CheckoutInput) {
	cause := req.CheckoutSessionID
	if cause == "" {
		cause = req.Amount.Decimal() + req.Amount.Currency()
	}

	payload := shared.DepositRequestedPayload{
		DepositRequestID:     req.ID,
		BookingID:            req.BookingID,
		FulfillmentID:        req.FulfillmentID,
		CustomerName:         req.Customer.Name,
		CustomerEmail:        req.Customer.Email,
		CustomerPhone:        req.Customer.Phone,
		FulfillmentReference: req.Customer.FulfillmentReference,
		FulfillmentSummary:   req.Customer.FulfillmentSummary,
		Lang:                 req.Customer.Lang,
		Amount:               req.Amount.Decimal(),
		Currency:             req.Amount.Currency(),
		CheckoutURL:          req.CheckoutURL,
	}
	if in.SelectedDate != nil {
		payload.SelectedDate = in.SelectedDate.String()
	}

	var job *shared.NotificationJob
	err := m.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		job, err = m.notifier.Enqueue(ctx, tx, Notification{
			Topic:     shared.TopicDepositRequested,
			DedupeKey: DepositRequestedKey(req.ID, cause),
			Payload:   payload,
		})
		return err
	})
	if err != nil {
		slog.Warn("deposit notification not recorded",
			"deposit_request_id", req.ID,
			"error", err.Error())
		return
	}
	m.notifier.Dispatch(ctx, job)
}

func linkFrom(req *deposit.Request, reused bool) *CheckoutLink {
	return &CheckoutLink{
		DepositRequestID: req.ID,
		CheckoutURL:      req.CheckoutURL,
		Amount:           req.Amount,
		Status:           req.Status,
		Reused:           reused,
	}
}

func checkoutDescription(req *deposit.Request, b *fulfillment.Booking) string {
	label := req.Customer.FulfillmentSummary
	if label == "" && b != nil {
		label = b.Label
	}
	if ref := req.Customer.FulfillmentReference; ref != "" {
		label = strings.TrimSpace(label + " (" + ref + ")")
	}
	if label == "" {
		return "Deposit"
	}
	return "Deposit: " + label
}

// redirectURL appends reconciliation parameters; the provider adapter adds its own session placeholder.
func redirectURL(base string, req *deposit.Request) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("deposit_request_id", req.ID.String())
	q.Set("booking_id", req.BookingID.String())
	q.Set("amount", req.Amount.Decimal())
	q.Set("currency", req.Amount.Currency())
	u.RawQuery = q.Encode()
	return u.String()
}
