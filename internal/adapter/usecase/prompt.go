package usecase

import (
	"strings"

	"social-sprout/internal/core/domain"
)

const captionSystemPrompt = "You are a social media manager."

func imagePrompt(c domain.Campaign, p domain.GenerationParams) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{c.BrandName, c.Goal, p.AdditionalContext} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func captionPrompt(c domain.Campaign) string {
	return "Write a caption for " + c.BrandName + " about " + c.Goal
}
