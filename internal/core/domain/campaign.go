package domain

import (
	"slices"
	"time"
)

// Category is the brand category a campaign belongs to.
type Category string

const (
	CategoryLifestyleProduct Category = "LIFESTYLE_PRODUCT"
	CategoryConsumerProduct  Category = "CONSUMER_PRODUCT"
	CategoryCafeOrRestaurant Category = "CAFE_OR_RESTAURANT"
	CategoryService          Category = "SERVICE"
)

// Platform is a social network a post is drafted for.
type Platform string

const (
	PlatformInstagram Platform = "INSTAGRAM"
	PlatformFacebook  Platform = "FACEBOOK"
	PlatformPinterest Platform = "PINTEREST"
)

// StylePreset steers the look of generated images.
type StylePreset string

const (
	StyleUGC           StylePreset = "UGC"
	StyleCleanStudio   StylePreset = "CLEAN_STUDIO"
	StyleWarmLifestyle StylePreset = "WARM_LIFESTYLE"
	StyleEditorial     StylePreset = "EDITORIAL"
	StyleMinimal       StylePreset = "MINIMAL"
	StyleDocumentary   StylePreset = "DOCUMENTARY"
)

// DefaultStyle is used when a generation request does not name a style.
const DefaultStyle = StyleUGC

// CampaignStatus tracks the commercial state of a campaign. Transitions
// beyond DRAFT are owned by the payment/fulfilment layer.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "DRAFT"
	CampaignStatusPaid      CampaignStatus = "PAID"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
)

// Campaign is the brand/goal container that owns a set of posts.
type Campaign struct {
	ID               string         `json:"id"`
	BrandName        string         `json:"brandName"`
	BrandCategory    Category       `json:"brandCategory"`
	BrandDescription string         `json:"brandDescription,omitempty"`
	Goal             string         `json:"goal"`
	Platforms        []Platform     `json:"platforms"`
	Status           CampaignStatus `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// HasPlatform reports whether p is one of the campaign's platforms.
func (c Campaign) HasPlatform(p Platform) bool {
	return slices.Contains(c.Platforms, p)
}

// PrimaryPlatform returns the first requested platform, falling back to
// Instagram for campaigns stored without any.
func (c Campaign) PrimaryPlatform() Platform {
	if len(c.Platforms) == 0 {
		return PlatformInstagram
	}
	return c.Platforms[0]
}
