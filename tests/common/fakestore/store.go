//go:build unit || e2e

// Package fakestore is an in-memory UnitOfWork that keeps the conditional-update semantics
// of the Postgres repositories, for use case tests.
package fakestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/domain/fulfillment"
	"booking-orchestrator/internal/domain/selection"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type membership struct {
	partnerID uuid.UUID
	userID    uuid.UUID
}

type data struct {
	members      map[membership]bool
	bookings     map[uuid.UUID]fulfillment.Booking
	fulfillments map[uuid.UUID]fulfillment.Fulfillment
	fulfillOrder []uuid.UUID
	views        map[uuid.UUID]fulfillment.SelectionView
	selections   map[uuid.UUID]selection.Request
	deposits     map[uuid.UUID]deposit.Request
	rules        []deposit.Rule
	jobs         map[string]shared.NotificationJob
	jobOrder     []string
}

type Store struct {
	mu   sync.Mutex // guards d
	txMu sync.Mutex // serializes Within
	d    *data

	// AttachCustomerIDErr fails AttachCheckout while a customer id is written.
	AttachCustomerIDErr error
	attachCalls         int
}

func New() *Store {
	return &Store{d: &data{
		members:      map[membership]bool{},
		bookings:     map[uuid.UUID]fulfillment.Booking{},
		fulfillments: map[uuid.UUID]fulfillment.Fulfillment{},
		views:        map[uuid.UUID]fulfillment.SelectionView{},
		selections:   map[uuid.UUID]selection.Request{},
		deposits:     map[uuid.UUID]deposit.Request{},
		jobs:         map[string]shared.NotificationJob{},
	}}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(ctx, &tx{s: s}); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &tx{s: s})
}

// ---- seeding & inspection ----

func (s *Store) AddMember(partnerID, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.members[membership{partnerID, userID}] = true
}

func (s *Store) PutBooking(b fulfillment.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.bookings[b.ID] = b
}

func (s *Store) PutFulfillment(f fulfillment.Fulfillment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.d.fulfillments[f.ID]; !ok {
		s.d.fulfillOrder = append(s.d.fulfillOrder, f.ID)
	}
	s.d.fulfillments[f.ID] = f
}

func (s *Store) PutRule(r deposit.Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.rules = append(s.d.rules, r)
}

func (s *Store) PutDeposit(r deposit.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.deposits[r.ID] = r
}

func (s *Store) Booking(id uuid.UUID) fulfillment.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.bookings[id]
}

func (s *Store) Fulfillment(id uuid.UUID) fulfillment.Fulfillment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.fulfillments[id]
}

func (s *Store) View(fulfillmentID uuid.UUID) (fulfillment.SelectionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.d.views[fulfillmentID]
	return v, ok
}

func (s *Store) SelectionFor(fulfillmentID uuid.UUID) (selection.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.d.selections {
		if r.FulfillmentID == fulfillmentID {
			return copySelection(r), true
		}
	}
	return selection.Request{}, false
}

func (s *Store) DepositFor(fulfillmentID uuid.UUID) (deposit.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.d.deposits {
		if r.FulfillmentID == fulfillmentID {
			return r, true
		}
	}
	return deposit.Request{}, false
}

func (s *Store) Jobs() []shared.NotificationJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.NotificationJob, 0, len(s.d.jobOrder))
	for _, k := range s.d.jobOrder {
		out = append(out, s.d.jobs[k])
	}
	return out
}

func (s *Store) JobsByTopic(topic string) []shared.NotificationJob {
	var out []shared.NotificationJob
	for _, j := range s.Jobs() {
		if j.Topic == topic {
			out = append(out, j)
		}
	}
	return out
}

func (s *Store) AttachCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attachCalls
}

// ExpireSelection rewinds the expiry of a fulfillment's request.
func (s *Store) ExpireSelection(fulfillmentID uuid.UUID, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.d.selections {
		if r.FulfillmentID == fulfillmentID {
			r.ExpiresAt = at
			s.d.selections[id] = r
		}
	}
}

func (d *data) clone() *data {
	c := &data{
		members:      make(map[membership]bool, len(d.members)),
		bookings:     make(map[uuid.UUID]fulfillment.Booking, len(d.bookings)),
		fulfillments: make(map[uuid.UUID]fulfillment.Fulfillment, len(d.fulfillments)),
		fulfillOrder: append([]uuid.UUID(nil), d.fulfillOrder...),
		views:        make(map[uuid.UUID]fulfillment.SelectionView, len(d.views)),
		selections:   make(map[uuid.UUID]selection.Request, len(d.selections)),
		deposits:     make(map[uuid.UUID]deposit.Request, len(d.deposits)),
		rules:        append([]deposit.Rule(nil), d.rules...),
		jobs:         make(map[string]shared.NotificationJob, len(d.jobs)),
		jobOrder:     append([]string(nil), d.jobOrder...),
	}
	for k, v := range d.members {
		c.members[k] = v
	}
	for k, v := range d.bookings {
		c.bookings[k] = v
	}
	for k, v := range d.fulfillments {
		c.fulfillments[k] = v
	}
	for k, v := range d.views {
		c.views[k] = v
	}
	for k, v := range d.selections {
		c.selections[k] = copySelection(v)
	}
	for k, v := range d.deposits {
		c.deposits[k] = v
	}
	for k, v := range d.jobs {
		c.jobs[k] = v
	}
	return c
}

func copySelection(r selection.Request) selection.Request {
	r.ProposedDates = append([]selection.Date(nil), r.ProposedDates...)
	return r
}

func notFound(what string) error {
	return infra.NewRepoError(infra.KindNotFound, what+" not found", nil)
}

// ---- repositories ----

type tx struct {
	s *Store
}

func (t *tx) Selections() shared.SelectionRequestRepository  { return selections{t.s} }
func (t *tx) Deposits() shared.DepositRequestRepository      { return deposits{t.s} }
func (t *tx) DepositRules() shared.DepositRuleRepository     { return rules{t.s} }
func (t *tx) Fulfillments() shared.FulfillmentRepository     { return fulfillments{t.s} }
func (t *tx) Bookings() shared.BookingRepository             { return bookings{t.s} }
func (t *tx) PartnerMembers() shared.PartnerMemberRepository { return members{t.s} }
func (t *tx) Notifications() shared.NotificationRepository   { return notifications{t.s} }

type selections struct{ s *Store }

func (r selections) FindByTokenHash(_ context.Context, tokenHash string) (*selection.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.d.selections {
		if req.TokenHash == tokenHash {
			c := copySelection(req)
			return &c, nil
		}
	}
	return nil, notFound("selection request")
}

func (r selections) FindByFulfillmentID(_ context.Context, fulfillmentID uuid.UUID) (*selection.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.d.selections {
		if req.FulfillmentID == fulfillmentID {
			c := copySelection(req)
			return &c, nil
		}
	}
	return nil, notFound("selection request")
}

func (r selections) Upsert(_ context.Context, req *selection.Request) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.d.selections {
		if existing.FulfillmentID != req.FulfillmentID {
			continue
		}
		existing.ProposedDates = append([]selection.Date(nil), req.ProposedDates...)
		existing.PreferredDate = req.PreferredDate
		existing.SelectedDate = nil
		existing.SelectedAt = nil
		existing.Status = req.Status
		existing.TokenHash = req.TokenHash
		existing.ExpiresAt = req.ExpiresAt
		existing.UpdatedAt = req.UpdatedAt
		r.s.d.selections[id] = existing
		return id, nil
	}
	r.s.d.selections[req.ID] = copySelection(*req)
	return req.ID, nil
}

func (r selections) MarkSelected(_ context.Context, tokenHash string, date selection.Date, now time.Time) (*selection.Request, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, req := range r.s.d.selections {
		if req.TokenHash != tokenHash {
			continue
		}
		if !req.Status.IsConfirmable() || !req.Offers(date) {
			return nil, false, nil
		}
		if req.Status != selection.StatusSelected && !req.ExpiresAt.After(now) {
			return nil, false, nil
		}
		d := date
		at := now
		req.Status = selection.StatusSelected
		req.SelectedDate = &d
		req.SelectedAt = &at
		req.UpdatedAt = now
		r.s.d.selections[id] = req
		c := copySelection(req)
		return &c, true, nil
	}
	return nil, false, nil
}

func (r selections) MarkExpired(_ context.Context, id uuid.UUID, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.d.selections[id]
	if !ok {
		return nil
	}
	if req.Status == selection.StatusSelected || req.Status == selection.StatusExpired || req.ExpiresAt.After(now) {
		return nil
	}
	req.Status = selection.StatusExpired
	req.UpdatedAt = now
	r.s.d.selections[id] = req
	return nil
}

type deposits struct{ s *Store }

func (r deposits) FindByID(_ context.Context, id uuid.UUID) (*deposit.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.d.deposits[id]
	if !ok {
		return nil, notFound("deposit request")
	}
	return &d, nil
}

func (r deposits) FindByFulfillmentID(_ context.Context, fulfillmentID uuid.UUID) (*deposit.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.d.deposits {
		if d.FulfillmentID == fulfillmentID {
			c := d
			return &c, nil
		}
	}
	return nil, notFound("deposit request")
}

func (r deposits) UpsertPending(_ context.Context, req *deposit.Request) (*deposit.Request, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.d.deposits {
		if existing.FulfillmentID != req.FulfillmentID {
			continue
		}
		if existing.IsPaid() {
			return nil, false, nil
		}
		existing.Amount = req.Amount
		existing.Status = deposit.StatusPending
		existing.CheckoutSessionID = ""
		existing.CheckoutURL = ""
		existing.UpdatedAt = req.UpdatedAt
		r.s.d.deposits[id] = existing
		c := existing
		return &c, true, nil
	}
	c := *req
	c.Status = deposit.StatusPending
	c.CheckoutSessionID = ""
	c.CheckoutURL = ""
	c.ProviderCustomerID = ""
	r.s.d.deposits[c.ID] = c
	out := c
	return &out, true, nil
}

func (r deposits) AttachCheckout(_ context.Context, id uuid.UUID, att shared.CheckoutAttachment, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.attachCalls++
	if !att.SkipCustomerID && r.s.AttachCustomerIDErr != nil {
		return r.s.AttachCustomerIDErr
	}
	d, ok := r.s.d.deposits[id]
	if !ok || d.Status != deposit.StatusPending {
		return nil
	}
	d.CheckoutSessionID = att.SessionID
	d.CheckoutURL = att.URL
	if !att.SkipCustomerID {
		d.ProviderCustomerID = att.CustomerID
	}
	d.UpdatedAt = now
	r.s.d.deposits[id] = d
	return nil
}

func (r deposits) MarkPaid(_ context.Context, id uuid.UUID, sessionID string, now time.Time) (*deposit.Request, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.d.deposits[id]
	if !ok || d.Status != deposit.StatusPending {
		return nil, false, nil
	}
	at := now
	d.Status = deposit.StatusPaid
	d.PaidAt = &at
	if sessionID != "" {
		d.CheckoutSessionID = sessionID
	}
	d.UpdatedAt = now
	r.s.d.deposits[id] = d
	c := d
	return &c, true, nil
}

type rules struct{ s *Store }

func (r rules) FindEnabledOverride(_ context.Context, resourceType string, resourceID uuid.UUID) (*deposit.Rule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rule := range r.s.d.rules {
		if rule.Enabled && rule.ResourceType == resourceType && rule.ResourceID != nil && *rule.ResourceID == resourceID {
			c := rule
			c.Source = deposit.SourceResourceOverride
			return &c, nil
		}
	}
	return nil, notFound("deposit rule")
}

func (r rules) FindEnabledDefault(_ context.Context, resourceType string) (*deposit.Rule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rule := range r.s.d.rules {
		if rule.Enabled && rule.ResourceType == resourceType && rule.ResourceID == nil {
			c := rule
			c.Source = deposit.SourceTypeDefault
			return &c, nil
		}
	}
	return nil, notFound("deposit rule")
}

type fulfillments struct{ s *Store }

func (r fulfillments) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.Fulfillment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.d.fulfillments[id]
	if !ok {
		return nil, notFound("fulfillment")
	}
	return &f, nil
}

func (r fulfillments) FindByBookingID(_ context.Context, bookingID uuid.UUID, resourceType string) (*fulfillment.Fulfillment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var candidates []fulfillment.Fulfillment
	for _, id := range r.s.d.fulfillOrder {
		if f := r.s.d.fulfillments[id]; f.BookingID == bookingID {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil, notFound("fulfillment")
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ResourceType == resourceType && candidates[j].ResourceType != resourceType
	})
	f := candidates[0]
	return &f, nil
}

func (r fulfillments) UpdateSelectionView(_ context.Context, id uuid.UUID, view fulfillment.SelectionView) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.fulfillments[id]; !ok {
		return notFound("fulfillment")
	}
	r.s.d.views[id] = view
	return nil
}

func (r fulfillments) Accept(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.d.fulfillments[id]
	if !ok {
		return false, nil
	}
	if !f.Accept() {
		return false, nil
	}
	f.UpdatedAt = now
	r.s.d.fulfillments[id] = f
	return true, nil
}

type bookings struct{ s *Store }

func (r bookings) FindByID(_ context.Context, id uuid.UUID) (*fulfillment.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.d.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	return &b, nil
}

func (r bookings) SetSelectedDate(_ context.Context, id uuid.UUID, date selection.Date, _ time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.d.bookings[id]
	if !ok {
		return notFound("booking")
	}
	t := date.Time()
	b.SelectedDate = &t
	r.s.d.bookings[id] = b
	return nil
}

type members struct{ s *Store }

func (r members) IsMember(_ context.Context, partnerID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.d.members[membership{partnerID, userID}], nil
}

type notifications struct{ s *Store }

func (r notifications) Enqueue(_ context.Context, job *shared.NotificationJob) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.d.jobs[job.DedupeKey]; exists {
		return false, nil
	}
	r.s.d.jobs[job.DedupeKey] = *job
	r.s.d.jobOrder = append(r.s.d.jobOrder, job.DedupeKey)
	return true, nil
}

func (r notifications) ListQueued(_ context.Context, olderThan time.Time, limit int) ([]*shared.NotificationJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*shared.NotificationJob
	for _, key := range r.s.d.jobOrder {
		if len(out) == limit {
			break
		}
		j := r.s.d.jobs[key]
		if j.Status == shared.NotificationQueued && !j.RunAt.After(olderThan) {
			out = append(out, &j)
		}
	}
	return out, nil
}

func (r notifications) MarkSent(_ context.Context, dedupeKey string, _ time.Time) error {
	if err := r.setStatus(dedupeKey, shared.NotificationSent); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j := r.s.d.jobs[dedupeKey]
	j.Payload = []byte("{}")
	r.s.d.jobs[dedupeKey] = j
	return nil
}

func (r notifications) MarkFailed(_ context.Context, dedupeKey string, _ string, _ time.Time) error {
	return r.setStatus(dedupeKey, shared.NotificationFailed)
}

func (r notifications) setStatus(dedupeKey string, status shared.NotificationJobStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.d.jobs[dedupeKey]
	if !ok {
		return notFound("notification job")
	}
	j.Status = status
	r.s.d.jobs[dedupeKey] = j
	return nil
}
