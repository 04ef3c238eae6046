package port

import (
	"errors"
	"fmt"
	"strings"

	"social-sprout/internal/core/domain"
)

var (
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrBudgetTooLow    = errors.New("budget too low")
	ErrPaymentRequired = errors.New("payment required")
	ErrPaymentInvalid  = errors.New("payment rejected")

	// Provider errors never reach HTTP callers; they end up as FAILED posts.
	ErrProvider        = errors.New("provider error")
	ErrProviderTimeout = errors.New("provider timed out")
	ErrProviderConfig  = errors.New("provider not configured")

	ErrQueueFull = errors.New("generation queue is full")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists the fields that failed validation. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PaymentRequiredError is returned by the quote gate when a request carries
// no payment proof. It holds the quote the caller has to pay.
type PaymentRequiredError struct {
	QuoteID string
	Details domain.PaymentDetails
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("%s: quote %s for %g %s", ErrPaymentRequired, e.QuoteID, e.Details.Amount, e.Details.Currency)
}

func (e *PaymentRequiredError) Is(target error) bool { return target == ErrPaymentRequired }
