package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

var errInvalidJSON = errors.New("invalid JSON")

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	QuoteID string `json:"quoteId,omitempty"`
}

// writeError maps the error taxonomy onto HTTP statuses. Unexpected errors
// are logged together with attrs and hidden behind a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, attrs ...any) {
	var (
		payment  *port.PaymentRequiredError
		invalid  *port.ValidationError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &payment):
		writeJSON(w, http.StatusPaymentRequired, errorBody{
			Error:   "PAYMENT_REQUIRED",
			Details: payment.Details,
			QuoteID: payment.QuoteID,
		})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: port.ErrValidation.Error(), Details: invalid.Fields})
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
	case errors.Is(err, errInvalidJSON):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, port.ErrValidation),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrIncompleteContent):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, port.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: port.ErrNotFound.Error()})
	case errors.Is(err, port.ErrBudgetTooLow), errors.Is(err, port.ErrPaymentInvalid):
		writeJSON(w, http.StatusPaymentRequired, errorBody{Error: err.Error()})
	default:
		attrs = append(attrs,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		h.logger.Error("request failed", attrs...)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status is already sent, nothing useful can be done on failure
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a size-limited JSON body into dst. An empty body leaves
// dst untouched when allowEmpty is set.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		if allowEmpty {
			return nil
		}
		return &port.ValidationError{Fields: []port.FieldError{{Field: "body", Rule: "required"}}}
	}
	var tooLarge *http.MaxBytesError
	if err != nil && !errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return err
}
