package port

import (
	"context"

	"social-sprout/internal/core/domain"
)

// ImageProvider generates an image and returns its URL. The URL may be a
// data URL when the provider only returns raw bytes.
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string, style domain.StylePreset, referenceAssetURLs []string) (string, error)
}

// TextProvider generates copy from a system and a user prompt.
type TextProvider interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Charge is a quote registered with the paywall.
type Charge struct {
	ChargeID string
	Details  domain.PaymentDetails
}

// PaywallProvider registers charges and verifies that they were paid.
type PaywallProvider interface {
	CreateCharge(ctx context.Context, amount float64, currency domain.Currency) (Charge, error)
	VerifyPayment(ctx context.Context, chargeID string) (bool, error)
}

// PaymentGate decides whether a generation request may proceed. It returns
// ErrBudgetTooLow, a *PaymentRequiredError or ErrPaymentInvalid on rejection.
type PaymentGate interface {
	Check(ctx context.Context, req GenerationRequest) error
}

// GenerationJob is one dispatched run: the placeholders of a campaign that
// still have to be generated.
type GenerationJob struct {
	RunID      string
	CampaignID string
	Params     domain.GenerationParams
	PostIDs    []string
}

// GenerationDispatcher hands jobs to background execution. Dispatch must not
// block; it returns ErrQueueFull when the job could not be accepted.
type GenerationDispatcher interface {
	Dispatch(job GenerationJob) error
}

// GenerationExecutor runs a job to completion. It never reports failures to
// the caller; outcomes are written to the posts and the run ledger.
type GenerationExecutor interface {
	Execute(ctx context.Context, job GenerationJob)
}
