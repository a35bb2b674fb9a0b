package dto

import (
	"time"

	"imospy/domain/model"
)

// AnalyzeAdsRequest asks for the longest running percentage of a company's ads
type AnalyzeAdsRequest struct {
	CompanyName string  `json:"companyName"`
	Percentage  float64 `json:"percentage"`
}

type AnalyzeAdsResponse struct {
	LongestRunningAds []model.AdWithDuration `json:"longestRunningAds"`
}

type AdHistoryResponse struct {
	History []AdHistoryEntry `json:"history"`
}

// AdHistoryEntry is a stored analysis with its ads rebuilt
type AdHistoryEntry struct {
	ID         string           `json:"id"`
	CompanyID  string           `json:"company_id"`
	Percentage float64          `json:"percentage"`
	RanAt      time.Time        `json:"ran_at"`
	Results    AdHistoryResults `json:"results"`
}

type AdHistoryResults struct {
	LongestRunningAds []HistoricalAd `json:"longestRunningAds"`
}

// HistoricalAd is a stored ad shaped like a live analysis result
type HistoricalAd struct {
	model.StoredAd
	AdArchiveIDAlias string           `json:"adArchiveID"`
	Snapshot         model.AdSnapshot `json:"snapshot"`
	Duration         int64            `json:"duration"`
}
