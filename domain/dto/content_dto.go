package dto

import "imospy/domain/model"

// ScrapeRequest triggers a scrape of one tracked account
type ScrapeRequest struct {
	AccountID string `json:"accountId"`
}

type ScrapeResponse struct {
	Message      string `json:"message"`
	ScrapedCount int    `json:"scraped_count"`
	StoredCount  int    `json:"stored_count"`
}

// ScrapeRunSummary reports one pass over all active accounts
type ScrapeRunSummary struct {
	Accounts int `json:"accounts"`
	Failed   int `json:"failed"`
	Stored   int `json:"stored"`
}

type ContentListResponse struct {
	Content []model.Content `json:"content"`
	Count   int             `json:"count"`
}

type AccountContentResponse struct {
	Content []model.Content `json:"content"`
}
