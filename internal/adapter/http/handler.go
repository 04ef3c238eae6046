package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"social-sprout/internal/core/port"
)

// Options tunes request limits and static asset serving.
type Options struct {
	// AssetsDir is served under /assets/ when not empty.
	AssetsDir      string
	MaxBodyBytes   int64
	MaxUploadBytes int64
}

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP that translates requests into use case calls and maps the error
// taxonomy onto status codes.
type Handler struct {
	campaigns port.CampaignUseCase
	posts     port.PostUseCase
	assets    port.AssetUseCase
	opts      Options
	logger    *slog.Logger
	router    chi.Router
	now       func() time.Time
}

// NewHandler creates a handler with all routes configured.
func NewHandler(
	campaigns port.CampaignUseCase,
	posts port.PostUseCase,
	assets port.AssetUseCase,
	opts Options,
	logger *slog.Logger,
) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	h := &Handler{
		campaigns: campaigns,
		posts:     posts,
		assets:    assets,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/campaigns", h.handleCreateCampaign)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Get("/campaigns/{id}/posts", h.handleListCampaignPosts)
		r.Post("/campaigns/{id}/generate", h.handleGeneratePosts)
		r.Get("/runs/{id}", h.handleGetRun)

		r.Post("/posts/{id}/approve", h.handleApprovePost)
		r.Post("/posts/{id}/schedule", h.handleSchedulePost)
		r.Get("/calendar", h.handleCalendar)

		r.Post("/assets/upload", h.handleUploadAsset)
	})
	if opts.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(opts.AssetsDir))))
	}
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": h.now().UTC(),
	})
}

// logRequests writes one structured line per request.
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
