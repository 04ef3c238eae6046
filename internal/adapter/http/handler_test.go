package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-sprout/internal/adapter/blob"
	"social-sprout/internal/adapter/memory"
	"social-sprout/internal/adapter/provider"
	"social-sprout/internal/adapter/usecase"
	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []port.GenerationJob
}

func (d *recordingDispatcher) Dispatch(job port.GenerationJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

type testServer struct {
	handler    *Handler
	store      *memory.Store
	dispatcher *recordingDispatcher
}

func newTestServer(t *testing.T, gate port.PaymentGate, opts Options) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	dispatcher := &recordingDispatcher{}

	blobs, err := blob.NewDiskStore(t.TempDir(), "http://localhost/assets")
	require.NoError(t, err)
	if opts.AssetsDir == "" {
		opts.AssetsDir = blobs.Dir()
	}

	h := NewHandler(
		usecase.NewCampaignUseCase(store, gate, dispatcher, usecase.PlaceholderPolicy{Count: 3}, logger),
		usecase.NewPostUseCase(store, logger),
		usecase.NewAssetUseCase(store, blobs, logger),
		opts,
		logger,
	)
	return &testServer{handler: h, store: store, dispatcher: dispatcher}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func campaignBody(budget int64) map[string]any {
	return map[string]any{
		"brandName":     "Bean There",
		"brandCategory": "CAFE_OR_RESTAURANT",
		"goal":          "Launch the autumn menu",
		"platforms":     []string{"INSTAGRAM"},
		"generationParams": map[string]any{
			"style":  "WARM_LIFESTYLE",
			"budget": budget,
		},
	}
}

func (s *testServer) seedDraft(t *testing.T) domain.Post {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.store.SaveCampaign(ctx, domain.Campaign{
		ID:            "c-1",
		BrandName:     "Bean There",
		BrandCategory: domain.CategoryCafeOrRestaurant,
		Goal:          "Launch",
		Platforms:     []domain.Platform{domain.PlatformInstagram},
		Status:        domain.CampaignStatusDraft,
		CreatedAt:     now,
	}))
	p, err := domain.NewDraft("p-1", "c-1", domain.PlatformInstagram, domain.PostContent{
		ImageURL: "https://img/1.jpg",
		Caption:  "Pumpkin spice is back",
	}, now)
	require.NoError(t, err)
	require.NoError(t, s.store.SavePosts(ctx, p))
	return p
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})

	rec := s.do(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
}

func TestCreateCampaignReturnsPlaceholders(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})

	rec := s.do(t, http.MethodPost, "/api/campaigns", campaignBody(50))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[port.CreateCampaignResult](t, rec)
	assert.NotEmpty(t, res.ID)
	require.NotNil(t, res.FirstRun)
	require.Len(t, res.FirstRun.Posts, 3)
	for _, p := range res.FirstRun.Posts {
		assert.Equal(t, domain.PostStatusGenerating, p.Status)
		assert.Nil(t, p.Content)
	}
	assert.Equal(t, 1, s.dispatcher.count())

	rec = s.do(t, http.MethodGet, "/api/campaigns/"+res.ID+"/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Post](t, rec), 3)

	rec = s.do(t, http.MethodGet, "/api/runs/"+res.FirstRun.RunID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[domain.GenerationRun](t, rec).Tasks, 3)
}

func TestCreateCampaignBudgetTooLow(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})

	rec := s.do(t, http.MethodPost, "/api/campaigns", campaignBody(49))

	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec)["error"], "budget too low")
	posts, err := s.store.ListPostsByStatus(context.Background(), domain.PostStatusGenerating)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, s.dispatcher.count())
}

func TestCreateCampaignRejectsBadInput(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{MaxBodyBytes: 512})

	body := campaignBody(100)
	body["brandName"] = "  "
	rec := s.do(t, http.MethodPost, "/api/campaigns", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"field":"brandName","rule":"notblank"}`)

	rec = s.do(t, http.MethodPost, "/api/campaigns", `{"brandName":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/campaigns", `{"goal":"`+strings.Repeat("x", 1024)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateCampaignQuoteFlow(t *testing.T) {
	gate := usecase.NewQuoteGate(provider.NewX402Paywall("0xreceiver", 8453), domain.CurrencyUSDC, time.Minute)
	s := newTestServer(t, gate, Options{})

	rec := s.do(t, http.MethodPost, "/api/campaigns", campaignBody(250))
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var quote struct {
		Error   string                `json:"error"`
		QuoteID string                `json:"quoteId"`
		Details domain.PaymentDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, "PAYMENT_REQUIRED", quote.Error)
	assert.NotEmpty(t, quote.QuoteID)
	assert.InDelta(t, 2.5, quote.Details.Amount, 1e-9)
	assert.Equal(t, domain.CurrencyUSDC, quote.Details.Currency)
	assert.Zero(t, s.dispatcher.count())

	body := campaignBody(250)
	body["generationParams"].(map[string]any)["payment"] = map[string]any{
		"quoteId": quote.QuoteID,
		"proof":   map[string]any{"transactionHash": "0xabc", "quantity": 2.5},
	}
	rec = s.do(t, http.MethodPost, "/api/campaigns", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, s.dispatcher.count())

	// quotes are single use
	rec = s.do(t, http.MethodPost, "/api/campaigns", body)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestGeneratePosts(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})
	s.seedDraft(t)

	rec := s.do(t, http.MethodPost, "/api/campaigns/c-1/generate", map[string]any{"budget": 80})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Len(t, decode[port.RunSummary](t, rec).Posts, 3)

	rec = s.do(t, http.MethodPost, "/api/campaigns/unknown/generate", map[string]any{"budget": 80})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApproveAndSchedule(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})
	s.seedDraft(t)

	rec := s.do(t, http.MethodPost, "/api/posts/p-1/schedule", map[string]any{"scheduledTime": "2026-04-01T10:00:00Z"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "drafts cannot be scheduled")

	rec = s.do(t, http.MethodPost, "/api/posts/p-1/approve", map[string]any{"editedCaption": "Now with oat milk"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[domain.Post](t, rec)
	assert.Equal(t, domain.PostStatusApproved, approved.Status)
	assert.Equal(t, "Now with oat milk", approved.Content.Caption)

	rec = s.do(t, http.MethodPost, "/api/posts/p-1/schedule", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/posts/p-1/schedule", map[string]any{"scheduledTime": "next tuesday"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/posts/p-1/schedule", map[string]any{"scheduledTime": "2026-04-01T10:00:00Z"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	scheduled := decode[domain.Post](t, rec)
	assert.Equal(t, domain.PostStatusScheduled, scheduled.Status)
	require.NotNil(t, scheduled.ScheduledTime)
	assert.True(t, scheduled.ScheduledTime.Equal(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)))

	rec = s.do(t, http.MethodGet, "/api/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[calendarResponse](t, rec).Events
	require.Len(t, events, 1)
	assert.Equal(t, "p-1", events[0].ID)
	assert.Equal(t, "https://img/1.jpg", events[0].Thumbnail)

	rec = s.do(t, http.MethodGet, "/api/calendar?from=2026-05-01T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events":[]}`, rec.Body.String())
}

func TestApproveUnknownPost(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})

	rec := s.do(t, http.MethodPost, "/api/posts/nope/approve", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarRejectsBadRange(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})

	rec := s.do(t, http.MethodGet, "/api/calendar?from=yesterday", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rule":"rfc3339"`)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/assets/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAsset(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})

	rec := httptest.NewRecorder()
	s.handler.Router().ServeHTTP(rec, uploadRequest(t, "logo.PNG", "", pngHeader))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[uploadResponse](t, rec)
	assert.NotEmpty(t, res.ID)
	require.True(t, strings.HasPrefix(res.URL, "http://localhost/assets/"), res.URL)
	assert.True(t, strings.HasSuffix(res.URL, ".png"), res.URL)

	rec = s.do(t, http.MethodGet, strings.TrimPrefix(res.URL, "http://localhost"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngHeader, rec.Body.Bytes())
}

func TestUploadAssetRejectsNonImages(t *testing.T) {
	s := newTestServer(t, usecase.BudgetGate{}, Options{})

	rec := httptest.NewRecorder()
	s.handler.Router().ServeHTTP(rec, uploadRequest(t, "notes.txt", "text/plain", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/assets/upload", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	s.handler.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type failingCampaigns struct {
	port.CampaignUseCase
}

func (failingCampaigns) GetCampaign(context.Context, string) (*domain.Campaign, error) {
	return nil, errors.New("connection reset")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(failingCampaigns{}, nil, nil, Options{}, logger)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns/c-1", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", decode[map[string]any](t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "connection reset")
}
