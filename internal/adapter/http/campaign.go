package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"social-sprout/internal/core/port"
)

// handleCreateCampaign creates a campaign and, when generation parameters
// are present, its placeholder posts. It answers with 201 as soon as the
// placeholders are stored; generation continues in the background.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in port.CreateCampaignInput
	if err := h.decodeJSON(w, r, &in, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.campaigns.CreateCampaign(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err, slog.String("brand", in.BrandName))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.campaigns.GetCampaign(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, slog.String("campaign_id", id))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleListCampaignPosts lets callers watch placeholders turn into drafts.
func (h *Handler) handleListCampaignPosts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	posts, err := h.posts.ListCampaignPosts(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, slog.String("campaign_id", id))
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) handleGeneratePosts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req port.GenerationRequest
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	run, err := h.campaigns.GeneratePosts(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err, slog.String("campaign_id", id))
		return
	}
	writeJSON(w, http.StatusAccepted, run)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.campaigns.GetRun(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, slog.String("run_id", id))
		return
	}
	writeJSON(w, http.StatusOK, run)
}
