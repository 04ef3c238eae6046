package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// BudgetGate only enforces the budget floor.
type BudgetGate struct{}

func (BudgetGate) Check(_ context.Context, req port.GenerationRequest) error {
	return checkBudget(req)
}

func checkBudget(req port.GenerationRequest) error {
	if req.Budget == nil {
		return fmt.Errorf("%w: budget is missing", port.ErrBudgetTooLow)
	}
	if *req.Budget < domain.BudgetFloor {
		return fmt.Errorf("%w: %d is below the minimum of %d", port.ErrBudgetTooLow, *req.Budget, domain.BudgetFloor)
	}
	return nil
}

type quote struct {
	details domain.PaymentDetails
	expires time.Time
}

// QuoteGate enforces the budget floor and then requires a paid quote. A
// request without proof gets a fresh quote back as a *port.PaymentRequiredError;
// a request with proof must reference a live quote, which is consumed.
type QuoteGate struct {
	paywall  port.PaywallProvider
	currency domain.Currency
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	quotes map[string]quote
}

func NewQuoteGate(paywall port.PaywallProvider, currency domain.Currency, ttl time.Duration) *QuoteGate {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &QuoteGate{
		paywall:  paywall,
		currency: currency,
		ttl:      ttl,
		now:      time.Now,
		quotes:   make(map[string]quote),
	}
}

func (g *QuoteGate) Check(ctx context.Context, req port.GenerationRequest) error {
	if err := checkBudget(req); err != nil {
		return err
	}
	amount := domain.MinorToMajor(*req.Budget)

	if req.Payment == nil || req.Payment.Proof == nil {
		charge, err := g.paywall.CreateCharge(ctx, amount, g.currency)
		if err != nil {
			return fmt.Errorf("create charge: %w", err)
		}
		g.mu.Lock()
		g.quotes[charge.ChargeID] = quote{details: charge.Details, expires: g.now().Add(g.ttl)}
		g.mu.Unlock()
		return &port.PaymentRequiredError{QuoteID: charge.ChargeID, Details: charge.Details}
	}

	q, ok := g.take(req.Payment.QuoteID)
	if !ok {
		return fmt.Errorf("%w: unknown or expired quote %q", port.ErrPaymentInvalid, req.Payment.QuoteID)
	}
	proof := req.Payment.Proof
	if strings.TrimSpace(proof.TransactionHash) == "" {
		return fmt.Errorf("%w: transaction hash is missing", port.ErrPaymentInvalid)
	}
	if amount > q.details.Amount {
		return fmt.Errorf("%w: quote covers %g, budget needs %g", port.ErrPaymentInvalid, q.details.Amount, amount)
	}
	if proof.Quantity < q.details.Amount {
		return fmt.Errorf("%w: paid %g, quote is %g", port.ErrPaymentInvalid, proof.Quantity, q.details.Amount)
	}
	paid, err := g.paywall.VerifyPayment(ctx, req.Payment.QuoteID)
	if err != nil {
		return fmt.Errorf("verify payment: %w", err)
	}
	if !paid {
		return fmt.Errorf("%w: payment for quote %q not verified", port.ErrPaymentInvalid, req.Payment.QuoteID)
	}
	return nil
}

// take removes and returns a live quote. Expired quotes are dropped on the
// way.
func (g *QuoteGate) take(id string) (quote, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, q := range g.quotes {
		if now.After(q.expires) {
			delete(g.quotes, k)
		}
	}
	q, ok := g.quotes[id]
	if ok {
		delete(g.quotes, id)
	}
	return q, ok
}

// NewPaymentGate returns the gate for mode ("budget" or "quote").
func NewPaymentGate(mode string, paywall port.PaywallProvider, currency domain.Currency, ttl time.Duration) (port.PaymentGate, error) {
	switch mode {
	case "", "budget":
		return BudgetGate{}, nil
	case "quote":
		if paywall == nil {
			return nil, errors.New("quote payment mode needs a paywall")
		}
		return NewQuoteGate(paywall, currency, ttl), nil
	default:
		return nil, fmt.Errorf("unknown payment mode %q", mode)
	}
}
