package commands

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/domain/fulfillment"
	"booking-orchestrator/internal/domain/selection"
	"booking-orchestrator/internal/domain/user"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/pkg/selectiontoken"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	errTargetRequired  = errs.New("fulfillment_id or booking_id is required")
	errWrongResource   = errs.New("fulfillment is not of the expected resource type")
	errTokenRequired   = errs.New("token is required")
	errSelectionLocked = errs.New("date selection is locked")
	errNothingSelected = errs.New("no date has been selected yet")
	errDepositDisabled = errs.New("deposit collection is disabled")
)

type SendOptionsInput struct {
	FulfillmentID *uuid.UUID
	BookingID     *uuid.UUID
	Dates         []string
	PreferredDate string
	Lang          string
}

type SendOptionsResult struct {
	BookingID     uuid.UUID
	FulfillmentID uuid.UUID
	RequestID     uuid.UUID
	Status        selection.Status
	OptionsCount  int
	ExpiresAt     time.Time
}

type DepositSummary struct {
	ID          uuid.UUID
	Amount      deposit.Money
	Status      deposit.Status
	CheckoutURL string
}

type PreviewResult struct {
	RequestID       uuid.UUID
	BookingID       uuid.UUID
	FulfillmentID   uuid.UUID
	Label           string
	Lang            string
	Window          selection.StayWindow
	ProposedDates   []selection.Date
	PreferredDate   *selection.Date
	SelectedDate    *selection.Date
	Status          selection.Status
	ExpiresAt       time.Time
	CanConfirm      bool
	SelectionLocked bool
	Deposit         *DepositSummary
}

type ConfirmResult struct {
	BookingID          uuid.UUID
	FulfillmentID      uuid.UUID
	SelectedDate       *selection.Date
	Status             selection.Status
	AlreadySelected    bool
	LockedAfterPayment bool
	DepositRequestID   *uuid.UUID
	PaymentLinkReady   bool
	CheckoutURL        string
	PaymentLinkError   string
}

type DateSelectionCommands interface {
	SendOptions(ctx context.Context, in SendOptionsInput, actor user.Actor) (*SendOptionsResult, error)
	Preview(ctx context.Context, rawToken, lang string) (*PreviewResult, error)
	Confirm(ctx context.Context, rawToken, selectedDate string) (*ConfirmResult, error)
	// Checkout retries payment link creation for an already selected date.
	Checkout(ctx context.Context, rawToken string) (*ConfirmResult, error)
}

type dateSelectionUseCaseImpl struct {
	uow       shared.UnitOfWork
	guard     AuthorizationGuard
	checkouts CheckoutManager
	notifier  NotificationEnqueuer
	selection config.SelectionConfig
	deposit   config.DepositConfig
	clock     clock.Clock
}

func NewDateSelectionUseCase(
	uow shared.UnitOfWork,
	guard AuthorizationGuard,
	checkouts CheckoutManager,
	notifier NotificationEnqueuer,
	selectionCfg config.SelectionConfig,
	depositCfg config.DepositConfig,
	clk clock.Clock,
) DateSelectionCommands {
	return &dateSelectionUseCaseImpl{
		uow:       uow,
		guard:     guard,
		checkouts: checkouts,
		notifier:  notifier,
		selection: selectionCfg,
		deposit:   depositCfg,
		clock:     clk,
	}
}

// state is everything one request needs about a fulfillment, loaded outside the write transaction.
type state struct {
	request     *selection.Request
	fulfillment *fulfillment.Fulfillment
	booking     *fulfillment.Booking
	deposit     *deposit.Request
}

func (s *state) locked() bool {
	return s.fulfillment.IsSelectionLocked(s.deposit)
}

func (uc *dateSelectionUseCaseImpl) SendOptions(ctx context.Context, in SendOptionsInput, actor user.Actor) (*SendOptionsResult, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthorized
	}

	f, err := uc.resolveFulfillment(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.RequirePartnerAccess(ctx, actor, f.PartnerID); err != nil {
		return nil, err
	}
	if f.ResourceType != uc.selection.ResourceType {
		return nil, validationErr(errWrongResource)
	}

	st, err := uc.loadFulfillmentState(ctx, f)
	if err != nil {
		return nil, err
	}
	if st.locked() {
		return nil, errs.Mark(errSelectionLocked, ErrConflict)
	}

	dates, err := selection.NewOptions(in.Dates, f.StayWindow(*st.booking), uc.selection.MaxDateOptions)
	if err != nil {
		return nil, validationErr(err)
	}
	var preferred *selection.Date
	if strings.TrimSpace(in.PreferredDate) != "" {
		p, perr := selection.ParseDate(in.PreferredDate)
		if perr != nil {
			return nil, validationErr(perr)
		}
		preferred = &p
	}

	rawToken, tokenHash, err := selectiontoken.Issue()
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	req := &selection.Request{
		ID:            uuid.New(),
		BookingID:     f.BookingID,
		FulfillmentID: f.ID,
		PartnerID:     f.PartnerID,
		CreatedAt:     now,
	}
	if st.request != nil {
		req = st.request
	}
	req.Reissue(dates, preferred, tokenHash, now, uc.selection.TokenTTL())

	lang := in.Lang
	if lang == "" {
		lang = st.booking.Lang
	}
	if lang == "" {
		lang = uc.selection.DefaultLang
	}

	var job *shared.NotificationJob
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Selections().Upsert(ctx, req)
		if err != nil {
			return err
		}
		req.ID = id

		view := fulfillment.NewSelectionView(req, st.deposit, now)
		if err := tx.Fulfillments().UpdateSelectionView(ctx, f.ID, view); err != nil {
			return err
		}

		job, err = uc.notifier.Enqueue(ctx, tx, Notification{
			Topic:     shared.TopicDateOptionsReady,
			DedupeKey: DateOptionsReadyKey(req.ID, tokenHash),
			Payload: shared.DateOptionsReadyPayload{
				RequestID:     req.ID,
				BookingID:     req.BookingID,
				FulfillmentID: req.FulfillmentID,
				CustomerName:  st.booking.CustomerName,
				CustomerEmail: st.booking.CustomerEmail,
				Lang:          lang,
				Dates:         selection.DateStrings(dates),
				PreferredDate: dateString(preferred),
				SelectionURL:  uc.selectionURL(rawToken, lang),
				ExpiresAt:     req.ExpiresAt,
			},
		})
		return err
	})
	if err != nil {
		return nil, repoErr(err, ErrNotFound)
	}
	uc.notifier.Dispatch(ctx, job)

	slog.Info("date options sent",
		"request_id", req.ID,
		"fulfillment_id", f.ID,
		"options", len(dates),
		"token_hash_prefix", selectiontoken.Prefix(tokenHash),
		"actor_id", actor.UserID)

	return &SendOptionsResult{
		BookingID:     req.BookingID,
		FulfillmentID: req.FulfillmentID,
		RequestID:     req.ID,
		Status:        req.Status,
		OptionsCount:  len(dates),
		ExpiresAt:     req.ExpiresAt,
	}, nil
}

func (uc *dateSelectionUseCaseImpl) Preview(ctx context.Context, rawToken, lang string) (*PreviewResult, error) {
	st, err := uc.loadByToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	r, f, b := st.request, st.fulfillment, st.booking

	locked := st.locked()
	if lang == "" {
		lang = b.Lang
	}
	if lang == "" {
		lang = uc.selection.DefaultLang
	}
	label := b.Label
	if label == "" {
		label = f.Summary
	}

	res := &PreviewResult{
		RequestID:       r.ID,
		BookingID:       r.BookingID,
		FulfillmentID:   r.FulfillmentID,
		Label:           label,
		Lang:            lang,
		Window:          f.StayWindow(*b),
		ProposedDates:   r.ProposedDates,
		PreferredDate:   r.PreferredDate,
		SelectedDate:    r.SelectedDate,
		Status:          r.Status,
		ExpiresAt:       r.ExpiresAt,
		CanConfirm:      r.CanConfirm(locked),
		SelectionLocked: locked,
	}
	if st.deposit != nil {
		res.Deposit = &DepositSummary{
			ID:          st.deposit.ID,
			Amount:      st.deposit.Amount,
			Status:      st.deposit.Status,
			CheckoutURL: st.deposit.CheckoutURL,
		}
	}
	return res, nil
}

func (uc *dateSelectionUseCaseImpl) Confirm(ctx context.Context, rawToken, selectedDate string) (*ConfirmResult, error) {
	st, err := uc.loadByToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	r := st.request

	date, err := selection.ParseDate(selectedDate)
	if err != nil {
		return nil, validationErr(err)
	}
	if !r.Offers(date) {
		return nil, validationErr(&selection.DateError{Value: date.String(), Cause: selection.ErrDateNotOffered})
	}

	if st.locked() {
		res := uc.resultFor(st)
		res.AlreadySelected = true
		res.LockedAfterPayment = true
		return res, nil
	}

	alreadySelected := r.HasSelected(date)
	now := uc.clock.Now()

	var won bool
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		updated, ok, err := tx.Selections().MarkSelected(ctx, r.TokenHash, date, now)
		if err != nil || !ok {
			won = false
			return err
		}
		won = true
		st.request = updated

		if err := tx.Bookings().SetSelectedDate(ctx, updated.BookingID, date, now); err != nil {
			return err
		}
		view := fulfillment.NewSelectionView(updated, st.deposit, now)
		return tx.Fulfillments().UpdateSelectionView(ctx, updated.FulfillmentID, view)
	})
	if err != nil {
		return nil, repoErr(err, ErrNotFound)
	}

	if !won {
		return uc.resolveLostRace(ctx, st, date)
	}

	slog.Info("date selected",
		"request_id", st.request.ID,
		"fulfillment_id", st.fulfillment.ID,
		"selected_date", date.String(),
		"replayed", alreadySelected)

	res := uc.resultFor(st)
	res.AlreadySelected = alreadySelected

	if uc.deposit.Enabled {
		uc.attachPaymentLink(ctx, st, res)
		return res, nil
	}

	if st.fulfillment.Status == fulfillment.StatusPending {
		if err := uc.acceptWithoutDeposit(ctx, st, now); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (uc *dateSelectionUseCaseImpl) Checkout(ctx context.Context, rawToken string) (*ConfirmResult, error) {
	st, err := uc.loadByToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if st.request.Status != selection.StatusSelected || st.request.SelectedDate == nil {
		return nil, validationErr(errNothingSelected)
	}
	if !uc.deposit.Enabled {
		return nil, validationErr(errDepositDisabled)
	}

	res := uc.resultFor(st)
	res.AlreadySelected = true
	if st.deposit != nil && st.deposit.IsPaid() {
		res.LockedAfterPayment = true
		return res, nil
	}

	link, err := uc.checkouts.EnsureCheckout(ctx, CheckoutInput{
		Fulfillment:  st.fulfillment,
		Booking:      st.booking,
		SelectedDate: st.request.SelectedDate,
	})
	if err != nil {
		return nil, err
	}
	applyLink(res, link)
	return res, nil
}

// resolveLostRace runs when the conditional update matched no row.
func (uc *dateSelectionUseCaseImpl) resolveLostRace(ctx context.Context, st *state, date selection.Date) (*ConfirmResult, error) {
	var fresh *selection.Request
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		fresh, err = tx.Selections().FindByTokenHash(ctx, st.request.TokenHash)
		return err
	})
	if err != nil {
		return nil, repoErr(err, ErrNotFound)
	}

	if fresh.HasSelected(date) {
		slog.Info("concurrent confirm already selected the same date",
			"request_id", fresh.ID,
			"selected_date", date.String())
		st.request = fresh
		res := uc.resultFor(st)
		res.AlreadySelected = true
		return res, nil
	}
	if now := uc.clock.Now(); fresh.IsExpiredAt(now) {
		return nil, uc.expire(ctx, fresh, now)
	}

	slog.Warn("confirm lost a race to a conflicting state",
		"request_id", fresh.ID,
		"status", fresh.Status.String())
	return nil, ErrConflict
}

func (uc *dateSelectionUseCaseImpl) attachPaymentLink(ctx context.Context, st *state, res *ConfirmResult) {
	link, err := uc.checkouts.EnsureCheckout(ctx, CheckoutInput{
		Fulfillment:  st.fulfillment,
		Booking:      st.booking,
		SelectedDate: st.request.SelectedDate,
	})
	if err != nil {
		slog.Warn("payment link not created, date stays selected",
			"request_id", st.request.ID,
			"fulfillment_id", st.fulfillment.ID,
			"error", err.Error())
		res.PaymentLinkError = paymentLinkMessage(err)
		return
	}
	applyLink(res, link)

	if st.deposit == nil || st.deposit.ID != link.DepositRequestID || st.deposit.Status != link.Status {
		now := uc.clock.Now()
		view := fulfillment.NewSelectionView(st.request, &deposit.Request{ID: link.DepositRequestID, Status: link.Status}, now)
		err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Fulfillments().UpdateSelectionView(ctx, st.fulfillment.ID, view)
		})
		if err != nil {
			slog.Warn("selection view not refreshed", "fulfillment_id", st.fulfillment.ID, "error", err.Error())
		}
	}
}

func (uc *dateSelectionUseCaseImpl) acceptWithoutDeposit(ctx context.Context, st *state, now time.Time) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Fulfillments().Accept(ctx, st.fulfillment.ID, now)
		return err
	})
	if err != nil {
		return repoErr(err, ErrNotFound)
	}
	st.fulfillment.Accept()
	slog.Info("fulfillment accepted without deposit", "fulfillment_id", st.fulfillment.ID)
	return nil
}

func (uc *dateSelectionUseCaseImpl) resolveFulfillment(ctx context.Context, in SendOptionsInput) (*fulfillment.Fulfillment, error) {
	if in.FulfillmentID == nil && in.BookingID == nil {
		return nil, validationErr(errTargetRequired)
	}

	var f *fulfillment.Fulfillment
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if in.FulfillmentID != nil {
			f, err = tx.Fulfillments().FindByID(ctx, *in.FulfillmentID)
		} else {
			f, err = tx.Fulfillments().FindByBookingID(ctx, *in.BookingID, uc.selection.ResourceType)
		}
		return err
	})
	if err != nil {
		return nil, repoErr(err, ErrNotFound)
	}
	return f, nil
}

func (uc *dateSelectionUseCaseImpl) loadFulfillmentState(ctx context.Context, f *fulfillment.Fulfillment) (*state, error) {
	st := &state{fulfillment: f}
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByID(ctx, f.BookingID)
		if err != nil {
			return err
		}
		st.booking = b

		if st.request, err = optional(tx.Selections().FindByFulfillmentID(ctx, f.ID)); err != nil {
			return err
		}
		st.deposit, err = optional(tx.Deposits().FindByFulfillmentID(ctx, f.ID))
		return err
	})
	if err != nil {
		return nil, repoErr(err, ErrNotFound)
	}
	return st, nil
}

// loadByToken resolves a live selection request, flipping it to expired when the TTL has passed.
func (uc *dateSelectionUseCaseImpl) loadByToken(ctx context.Context, rawToken string) (*state, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, validationErr(errTokenRequired)
	}
	hash := selectiontoken.Hash(rawToken)

	var r *selection.Request
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		r, err = tx.Selections().FindByTokenHash(ctx, hash)
		return err
	})
	if err != nil {
		return nil, repoErr(err, ErrNotFound)
	}

	if now := uc.clock.Now(); r.IsExpiredAt(now) {
		return nil, uc.expire(ctx, r, now)
	}

	var f *fulfillment.Fulfillment
	err = uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		f, err = tx.Fulfillments().FindByID(ctx, r.FulfillmentID)
		return err
	})
	if err != nil {
		return nil, repoErr(err, ErrNotFound)
	}

	st, err := uc.loadFulfillmentState(ctx, f)
	if err != nil {
		return nil, err
	}
	st.request = r
	return st, nil
}

// expire persists the lapsed status and returns ErrExpiredToken unless the write itself failed.
func (uc *dateSelectionUseCaseImpl) expire(ctx context.Context, r *selection.Request, now time.Time) error {
	if r.Status == selection.StatusExpired {
		return ErrExpiredToken
	}
	err := uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Selections().MarkExpired(ctx, r.ID, now)
	})
	if err != nil {
		return repoErr(err, ErrNotFound)
	}
	slog.Info("selection request expired",
		"request_id", r.ID,
		"token_hash_prefix", selectiontoken.Prefix(r.TokenHash))
	return ErrExpiredToken
}

func (uc *dateSelectionUseCaseImpl) resultFor(st *state) *ConfirmResult {
	res := &ConfirmResult{
		BookingID:     st.request.BookingID,
		FulfillmentID: st.request.FulfillmentID,
		SelectedDate:  st.request.SelectedDate,
		Status:        st.request.Status,
	}
	if st.deposit != nil {
		id := st.deposit.ID
		res.DepositRequestID = &id
		res.CheckoutURL = st.deposit.CheckoutURL
		res.PaymentLinkReady = st.deposit.CheckoutURL != ""
	}
	return res
}

func (uc *dateSelectionUseCaseImpl) selectionURL(rawToken, lang string) string {
	u, err := url.Parse(uc.selection.LinkBaseURL)
	if err != nil {
		return uc.selection.LinkBaseURL + "?token=" + url.QueryEscape(rawToken)
	}
	q := u.Query()
	q.Set("token", rawToken)
	if lang != "" {
		q.Set("lang", lang)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func applyLink(res *ConfirmResult, link *CheckoutLink) {
	id := link.DepositRequestID
	res.DepositRequestID = &id
	res.CheckoutURL = link.CheckoutURL
	res.PaymentLinkReady = link.CheckoutURL != ""
	if link.Status == deposit.StatusPaid {
		res.LockedAfterPayment = true
	}
}

func paymentLinkMessage(err error) string {
	switch {
	case errs.Is(err, ErrRuleMissing):
		return ErrRuleMissing.Error()
	case errs.Is(err, ErrInvalidDeposit):
		return ErrInvalidDeposit.Error()
	case errs.Is(err, ErrExternalService):
		return ErrExternalService.Error()
	default:
		return "payment link could not be created"
	}
}

// optional turns a not-found lookup into nil.
func optional[T any](v *T, err error) (*T, error) {
	if err != nil {
		if infra.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func dateString(d *selection.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
