package model

import (
	"time"

	"imospy/domain/platform"
)

// Content is a normalized post stored for a tracked account. The pair
// (TrackedAccountID, ContentID) is unique.
type Content struct {
	ID               string `json:"id"`
	TrackedAccountID string `json:"tracked_account_id"`
	Platform         string `json:"platform"`
	platform.NormalizedContent
	ScrapedAt time.Time `json:"scraped_at"`

	// Account is filled by listings that join the owning account.
	Account *AccountSummary `json:"tracked_accounts,omitempty"`
}

// AccountSummary is the account info joined onto content listings.
type AccountSummary struct {
	Platform      string `json:"platform"`
	AccountHandle string `json:"account_handle"`
	AccountName   string `json:"account_name"`
}
