package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"social-sprout/internal/core/domain"
	"social-sprout/internal/core/port"
)

const (
	freepikStatusCreated    = "CREATED"
	freepikStatusInProgress = "IN_PROGRESS"
	freepikStatusCompleted  = "COMPLETED"
	freepikStatusFailed     = "FAILED"
)

// FreepikConfig configures FreepikImageProvider. Zero PollInterval and
// MaxAttempts fall back to 2s and 60.
type FreepikConfig struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
	MaxAttempts  int
	HTTPClient   *http.Client
}

// FreepikImageProvider generates images with the Freepik Mystic API. When the
// API answers with a task instead of an image, the task is polled until it
// completes, fails or the attempt budget runs out.
type FreepikImageProvider struct {
	cfg    FreepikConfig
	logger *slog.Logger
}

func NewFreepikImageProvider(cfg FreepikConfig, logger *slog.Logger) *FreepikImageProvider {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 60
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}
	return &FreepikImageProvider{cfg: cfg, logger: logger}
}

type freepikRequest struct {
	Prompt    string `json:"prompt"`
	NumImages int    `json:"num_images"`
}

type freepikImage struct {
	URL    string `json:"url"`
	Base64 string `json:"base64"`
}

type freepikTask struct {
	TaskID    string            `json:"task_id"`
	Status    string            `json:"status"`
	Generated []json.RawMessage `json:"generated"`
}

type freepikResponse struct {
	Data json.RawMessage `json:"data"`
}

func (p *FreepikImageProvider) GenerateImage(ctx context.Context, prompt string, style domain.StylePreset, _ []string) (string, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return "", fmt.Errorf("%w: freepik api key is not set", port.ErrProviderConfig)
	}
	if style != "" {
		prompt = prompt + ", style: " + string(style)
	}

	body, err := json.Marshal(freepikRequest{Prompt: prompt, NumImages: 1})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	status, raw, err := p.do(ctx, http.MethodPost, p.cfg.BaseURL+"/mystic", body)
	if err != nil {
		return "", fmt.Errorf("%w: freepik request: %v", port.ErrProvider, err)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("%w: freepik status %d: %s", port.ErrProvider, status, truncate(string(raw), 300))
	}

	var resp freepikResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: parse freepik response: %v", port.ErrProvider, err)
	}
	data := bytes.TrimSpace(resp.Data)
	if len(data) > 0 && data[0] == '[' {
		var images []freepikImage
		if err = json.Unmarshal(data, &images); err != nil {
			return "", fmt.Errorf("%w: parse freepik images: %v", port.ErrProvider, err)
		}
		if len(images) == 0 {
			return "", fmt.Errorf("%w: freepik returned no images", port.ErrProvider)
		}
		return imageResult(images[0])
	}

	var task freepikTask
	if err = json.Unmarshal(data, &task); err != nil {
		return "", fmt.Errorf("%w: parse freepik task: %v", port.ErrProvider, err)
	}
	if url, done, err := taskResult(task); done {
		return url, err
	}
	if task.TaskID == "" {
		return "", fmt.Errorf("%w: freepik response has neither images nor a task id", port.ErrProvider)
	}
	return p.poll(ctx, task.TaskID)
}

// poll waits for an asynchronous task. Transport errors and non-2xx answers
// count as attempts but do not end polling.
func (p *FreepikImageProvider) poll(ctx context.Context, taskID string) (string, error) {
	url := p.cfg.BaseURL + "/mystic/" + taskID
	timer := time.NewTimer(p.cfg.PollInterval)
	defer timer.Stop()

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
		timer.Reset(p.cfg.PollInterval)

		status, raw, err := p.do(ctx, http.MethodGet, url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			p.logger.Debug("freepik poll failed", slog.String("task_id", taskID), slog.Int("attempt", attempt), slog.Any("error", err))
			continue
		}
		if status < 200 || status >= 300 {
			p.logger.Debug("freepik poll status", slog.String("task_id", taskID), slog.Int("attempt", attempt), slog.Int("status", status))
			continue
		}

		var resp struct {
			Data freepikTask `json:"data"`
		}
		if err = json.Unmarshal(raw, &resp); err != nil {
			p.logger.Debug("freepik poll body", slog.String("task_id", taskID), slog.Int("attempt", attempt), slog.Any("error", err))
			continue
		}
		if url, done, err := taskResult(resp.Data); done {
			return url, err
		}
	}
	return "", fmt.Errorf("%w: freepik task %s after %d polls", port.ErrProviderTimeout, taskID, p.cfg.MaxAttempts)
}

func (p *FreepikImageProvider) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-freepik-api-key", p.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.cfg.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// taskResult reports whether the task reached a final state and, if so,
// its outcome.
func taskResult(task freepikTask) (string, bool, error) {
	switch strings.ToUpper(task.Status) {
	case freepikStatusCompleted:
		if len(task.Generated) == 0 {
			return "", true, fmt.Errorf("%w: freepik task %s completed without images", port.ErrProvider, task.TaskID)
		}
		img, err := parseGenerated(task.Generated[0])
		if err != nil {
			return "", true, err
		}
		url, err := imageResult(img)
		return url, true, err
	case freepikStatusFailed:
		return "", true, fmt.Errorf("%w: freepik task %s failed", port.ErrProvider, task.TaskID)
	default:
		return "", false, nil
	}
}

// parseGenerated accepts either a bare URL string or an {url, base64} object.
func parseGenerated(raw json.RawMessage) (freepikImage, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return freepikImage{URL: s}, nil
	}
	var img freepikImage
	if err := json.Unmarshal(raw, &img); err != nil {
		return freepikImage{}, fmt.Errorf("%w: parse generated image: %v", port.ErrProvider, err)
	}
	return img, nil
}

func imageResult(img freepikImage) (string, error) {
	if u := strings.TrimSpace(img.URL); u != "" {
		return u, nil
	}
	b64 := strings.TrimSpace(img.Base64)
	if b64 == "" {
		return "", fmt.Errorf("%w: image has neither url nor base64", port.ErrProvider)
	}
	if strings.HasPrefix(b64, "data:") {
		return b64, nil
	}
	return "data:image/png;base64," + b64, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
