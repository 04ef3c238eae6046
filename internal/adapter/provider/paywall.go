package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

// X402Paywall issues x402-style charges. Settlement is not performed: a
// charge verifies as paid once it has been issued.
type X402Paywall struct {
	receiver string
	chainID  int64

	mu      sync.Mutex
	charges map[string]domain.PaymentDetails
}

func NewX402Paywall(receiverAddress string, chainID int64) *X402Paywall {
	return &X402Paywall{
		receiver: receiverAddress,
		chainID:  chainID,
		charges:  make(map[string]domain.PaymentDetails),
	}
}

func (p *X402Paywall) CreateCharge(_ context.Context, amount float64, currency domain.Currency) (port.Charge, error) {
	if amount <= 0 {
		return port.Charge{}, fmt.Errorf("%w: charge amount must be positive", port.ErrValidation)
	}
	details := domain.PaymentDetails{
		Amount:          amount,
		Currency:        currency,
		ReceiverAddress: p.receiver,
		ChainID:         p.chainID,
	}
	id := "ch_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	p.mu.Lock()
	p.charges[id] = details
	p.mu.Unlock()

	return port.Charge{ChargeID: id, Details: details}, nil
}

func (p *X402Paywall) VerifyPayment(_ context.Context, chargeID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.charges[chargeID]
	return ok, nil
}
