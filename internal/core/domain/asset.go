package domain

import "time"

// AssetType classifies uploaded reference material.
type AssetType string

const AssetTypeImage AssetType = "IMAGE"

// Asset is an uploaded file used as generation reference material.
// CampaignID stays empty until the asset is linked to a campaign.
type Asset struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaignId,omitempty"`
	URL        string    `json:"url"`
	Type       AssetType `json:"type"`
	CreatedAt  time.Time `json:"createdAt"`
}
