package model

import (
	"database/sql/driver"
	"time"

	"github.com/goccy/go-json"

	"imospy/domain/platform"
)

// Ad is an entry of a company's ad library listing.
type Ad struct {
	AdArchiveID string     `json:"ad_archive_id"`
	PageID      string     `json:"page_id"`
	PageName    string     `json:"page_name"`
	Snapshot    AdSnapshot `json:"snapshot"`
}

// AdDetails is the delivery window and creative of one ad.
type AdDetails struct {
	AdArchiveID                string        `json:"ad_archive_id"`
	PageID                     string        `json:"page_id,omitempty"`
	PageName                   string        `json:"page_name,omitempty"`
	AdCreationTime             platform.Text `json:"ad_creation_time,omitempty"`
	AdCreativeBodies           []string      `json:"ad_creative_bodies,omitempty"`
	AdCreativeLinkCaptions     []string      `json:"ad_creative_link_captions,omitempty"`
	AdCreativeLinkDescriptions []string      `json:"ad_creative_link_descriptions,omitempty"`
	AdCreativeLinkTitles       []string      `json:"ad_creative_link_titles,omitempty"`
	AdDeliveryStartTime        platform.Text `json:"ad_delivery_start_time,omitempty"`
	AdDeliveryStopTime         platform.Text `json:"ad_delivery_stop_time,omitempty"`
	StartDate                  platform.Text `json:"start_date,omitempty"`
	EndDate                    platform.Text `json:"end_date,omitempty"`
	AdSnapshotURL              string        `json:"ad_snapshot_url,omitempty"`
	Bylines                    string        `json:"bylines,omitempty"`
	Currency                   string        `json:"currency,omitempty"`
	Spend                      *Bounds       `json:"spend,omitempty"`
	Impressions                *Bounds       `json:"impressions,omitempty"`
	PublisherPlatforms         []string      `json:"publisher_platforms,omitempty"`
	Snapshot                   AdSnapshot    `json:"snapshot"`
}

// StartRaw returns the delivery start as sent upstream; some payloads use
// start_date instead of ad_delivery_start_time.
func (d *AdDetails) StartRaw() string {
	if d.AdDeliveryStartTime != "" {
		return d.AdDeliveryStartTime.String()
	}
	return d.StartDate.String()
}

// StopRaw returns the delivery stop, or "" for ads still running.
func (d *AdDetails) StopRaw() string {
	if d.AdDeliveryStopTime != "" {
		return d.AdDeliveryStopTime.String()
	}
	return d.EndDate.String()
}

type Bounds struct {
	LowerBound platform.Text `json:"lower_bound"`
	UpperBound platform.Text `json:"upper_bound"`
}

// AdSnapshot is the rendered creative of an ad.
type AdSnapshot struct {
	Body   AdBody    `json:"body"`
	Title  string    `json:"title,omitempty"`
	Videos []AdVideo `json:"videos"`
	Images []AdImage `json:"images"`
}

type AdVideo struct {
	VideoHDURL           string `json:"video_hd_url,omitempty"`
	VideoSDURL           string `json:"video_sd_url,omitempty"`
	VideoPreviewImageURL string `json:"video_preview_image_url,omitempty"`
}

type AdImage struct {
	OriginalImageURL string `json:"original_image_url,omitempty"`
	ResizedImageURL  string `json:"resized_image_url,omitempty"`
}

// AdBody accepts either a plain string or an object {"text": "..."}.
type AdBody struct {
	Text string `json:"text"`
}

func (b *AdBody) UnmarshalJSON(data []byte) error {
	*b = AdBody{}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Text)
	}
	type plain AdBody
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	*b = AdBody(p)
	return nil
}

// AdWithDuration is an ad together with its running time in milliseconds.
type AdWithDuration struct {
	AdDetails
	Duration int64 `json:"duration"`
}

// Company is an advertiser whose ads have been analyzed.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredAd is the persisted subset of an ad's details.
type StoredAd struct {
	AdArchiveID    string     `json:"ad_archive_id"`
	CompanyID      string     `json:"company_id"`
	PageName       string     `json:"page_name"`
	AdCreativeBody string     `json:"ad_creative_body"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	IsVideo        bool       `json:"is_video"`
	MediaURL       string     `json:"media_url"`
	ThumbnailURL   string     `json:"thumbnail_url"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Analysis is one recorded run of the ad analyzer.
type Analysis struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	Percentage float64         `json:"percentage"`
	RanAt      time.Time       `json:"ran_at"`
	Results    AnalysisResults `json:"results"`
}

// AnalysisResults lists the archive ids of the returned ads, longest first.
type AnalysisResults struct {
	LongestRunningAds []string `json:"longestRunningAds"`
}

func (r AnalysisResults) Value() (driver.Value, error) {
	if r.LongestRunningAds == nil {
		r.LongestRunningAds = []string{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *AnalysisResults) Scan(src interface{}) error {
	*r = AnalysisResults{}
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return nil
}

// AdDetailLog is the raw detail payload of one analysis run.
type AdDetailLog struct {
	Company   string      `json:"company" bson:"company"`
	FetchedAt time.Time   `json:"fetched_at" bson:"fetched_at"`
	Count     int         `json:"count" bson:"count"`
	Details   []AdDetails `json:"details" bson:"details"`
}
