package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"social-sprout/internal/core/port"
)

// GeminiTextProvider writes captions with the Gemini API. The client is
// created on first use so that a missing key only fails generation calls.
type GeminiTextProvider struct {
	apiKey  string
	model   string
	baseURL string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiTextProvider returns a provider for model. baseURL overrides the
// API endpoint when non-empty.
func NewGeminiTextProvider(apiKey, model, baseURL string) *GeminiTextProvider {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiTextProvider{apiKey: apiKey, model: model, baseURL: baseURL}
}

func (p *GeminiTextProvider) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", fmt.Errorf("%w: gemini api key is not set", port.ErrProviderConfig)
	}
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	var cfg *genai.GenerateContentConfig
	if strings.TrimSpace(systemPrompt) != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		}
	}
	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %v", port.ErrProvider, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no text", port.ErrProvider)
	}
	return text, nil
}

func (p *GeminiTextProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	cc := &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.baseURL != "" {
		cc.HTTPOptions.BaseURL = p.baseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: create gemini client: %v", port.ErrProviderConfig, err)
	}
	p.client = client
	return client, nil
}
