package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"social-sprout/internal/core/port"
)

func (h *Handler) handleApprovePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in port.ApprovePostInput
	if err := h.decodeJSON(w, r, &in, true); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.posts.ApprovePost(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err, slog.String("post_id", id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleSchedulePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in port.SchedulePostInput
	if err := h.decodeJSON(w, r, &in, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.posts.SchedulePost(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err, slog.String("post_id", id))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type calendarResponse struct {
	Events []port.CalendarEvent `json:"events"`
}

// handleCalendar returns scheduled and posted posts as calendar events. It
// accepts optional `from` and `to` RFC3339 bounds on the event start.
func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	var (
		q      = r.URL.Query()
		req    port.CalendarReq
		fields []port.FieldError
	)
	for _, b := range []struct {
		name string
		dst  **time.Time
	}{{"from", &req.From}, {"to", &req.To}} {
		v := q.Get(b.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			fields = append(fields, port.FieldError{Field: b.name, Rule: "rfc3339"})
			continue
		}
		*b.dst = &t
	}
	if len(fields) > 0 {
		h.writeError(w, r, &port.ValidationError{Fields: fields})
		return
	}

	events, err := h.posts.Calendar(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Events: events})
}
