package provider

import (
	"context"
	"strings"
	"time"

	"social-sprout/internal/core/domain"
)

// StubCaption is returned by StubTextProvider for every request.
const StubCaption = "This is a deterministic stub caption for testing. It simulates a successful generation from an AI provider. #SocialSprout #MVP"

const stubImageBaseURL = "https://stub-provider.com/generated/"

// StubImageProvider returns a URL derived from the style after a fixed
// latency. It never calls the network.
type StubImageProvider struct {
	Latency time.Duration
}

func (p StubImageProvider) GenerateImage(ctx context.Context, _ string, style domain.StylePreset, referenceAssetURLs []string) (string, error) {
	if err := sleep(ctx, p.Latency); err != nil {
		return "", err
	}
	return StubImageURL(style, len(referenceAssetURLs) > 0), nil
}

// StubImageURL builds the deterministic stub URL for a style.
func StubImageURL(style domain.StylePreset, withRef bool) string {
	if style == "" {
		style = domain.DefaultStyle
	}
	name := strings.ReplaceAll(strings.ToLower(string(style)), "_", "-")
	if withRef {
		name += "-with-ref"
	}
	return stubImageBaseURL + name + "-option.jpg"
}

// StubTextProvider returns StubCaption after a fixed latency.
type StubTextProvider struct {
	Latency time.Duration
}

func (p StubTextProvider) GenerateText(ctx context.Context, _, _ string) (string, error) {
	if err := sleep(ctx, p.Latency); err != nil {
		return "", err
	}
	return StubCaption, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
