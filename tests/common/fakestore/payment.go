//go:build unit || e2e

package fakestore

import (
	"context"
	"fmt"
	"sync"

	"booking-orchestrator/internal/usecase/shared"
)

// Provider records checkout session requests.
type Provider struct {
	mu       sync.Mutex
	sessions []shared.CheckoutSessionParams

	CustomerID  string
	LookupErr   error
	CheckoutErr error
}

var _ shared.PaymentProvider = (*Provider)(nil)

func (p *Provider) FindCustomerByEmail(_ context.Context, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.LookupErr != nil {
		return "", p.LookupErr
	}
	return p.CustomerID, nil
}

func (p *Provider) CreateCheckoutSession(_ context.Context, params shared.CheckoutSessionParams) (*shared.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.CheckoutErr != nil {
		return nil, p.CheckoutErr
	}
	p.sessions = append(p.sessions, params)
	n := len(p.sessions)
	return &shared.CheckoutSession{
		ID:         fmt.Sprintf("cs_test_%d", n),
		URL:        fmt.Sprintf("https://checkout.test/pay/cs_test_%d", n),
		CustomerID: params.CustomerID,
	}, nil
}

func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

func (p *Provider) LastParams() shared.CheckoutSessionParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sessions) == 0 {
		return shared.CheckoutSessionParams{}
	}
	return p.sessions[len(p.sessions)-1]
}

// Publisher captures dispatched jobs.
type Publisher struct {
	mu   sync.Mutex
	jobs []shared.NotificationJob

	Err error
}

var _ shared.NotificationPublisher = (*Publisher)(nil)

func (p *Publisher) Publish(_ context.Context, job *shared.NotificationJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.jobs = append(p.jobs, *job)
	return nil
}

func (p *Publisher) Published() []shared.NotificationJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.NotificationJob(nil), p.jobs...)
}
