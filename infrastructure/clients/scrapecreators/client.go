package scrapecreators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"

	"imospy/domain/dto"
	"imospy/domain/model"
	"imospy/domain/platform"
	"imospy/infrastructure/logger"
)

const (
	DefaultBaseURL    = "https://api.scrapecreators.com"
	defaultTimeout    = 60 * time.Second
	defaultMaxAdPages = 10
)

// Config represents ScrapeCreators client configuration
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxAdPages int
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ScrapeCreators API Error: %d - %s", e.StatusCode, e.Body)
}

// HTTPStatus exposes the upstream status for error classification.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Client calls the ScrapeCreators REST API.
type Client struct {
	http       *resty.Client
	apiKey     string
	maxAdPages int
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAdPages <= 0 {
		cfg.MaxAdPages = defaultMaxAdPages
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, apiKey: cfg.APIKey, maxAdPages: cfg.MaxAdPages}
}

// Configured reports whether an API key was provided.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type handleParams struct {
	Handle string `url:"handle"`
	Trim   *bool  `url:"trim,omitempty"`
}

type urlParams struct {
	URL string `url:"url"`
}

type companyAdsParams struct {
	CompanyName string `url:"companyName"`
	Cursor      string `url:"cursor,omitempty"`
}

type adDetailParams struct {
	AdID string `url:"ad_id"`
}

// get issues a GET with params encoded from a tagged struct and decodes the
// JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, params interface{}, out interface{}) error {
	values, err := query.Values(params)
	if err != nil {
		return errors.Wrapf(err, "encode query for %s", endpoint)
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(values).
		Get(endpoint)
	if err != nil {
		return errors.Wrapf(err, "request %s", endpoint)
	}
	if !resp.IsSuccess() {
		logger.GetLogger().WithField("endpoint", endpoint).WithField("status", resp.StatusCode()).Warn("ScrapeCreators request failed")
		return errors.WithStack(&APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())})
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrapf(err, "decode %s response", endpoint)
	}
	return nil
}

func (c *Client) GetInstagramProfile(ctx context.Context, handle string) (*dto.InstagramProfileResponse, error) {
	trim := false
	var out dto.InstagramProfileResponse
	if err := c.get(ctx, "/v1/instagram/profile", handleParams{Handle: handle, Trim: &trim}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTikTokVideos(ctx context.Context, handle string) (*dto.TikTokVideosResponse, error) {
	var out dto.TikTokVideosResponse
	if err := c.get(ctx, "/v1/tiktok/profile/videos", handleParams{Handle: handle}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLinkedInProfile(ctx context.Context, profileURL string) (*dto.LinkedInProfileResponse, error) {
	var out dto.LinkedInProfileResponse
	if err := c.get(ctx, "/v1/linkedin/profile", urlParams{URL: profileURL}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLinkedInCompany(ctx context.Context, companyURL string) (*dto.LinkedInProfileResponse, error) {
	var out dto.LinkedInProfileResponse
	if err := c.get(ctx, "/v1/linkedin/company", urlParams{URL: companyURL}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLinkedInPost(ctx context.Context, postURL string) (*platform.LinkedInPostDetail, error) {
	var out platform.LinkedInPostDetail
	if err := c.get(ctx, "/v1/linkedin/post", urlParams{URL: postURL}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type companyAdsPage struct {
	Ads    []model.Ad `json:"ads"`
	Cursor string     `json:"cursor"`
}

// GetCompanyAds follows the cursor until the listing is exhausted or the
// page limit is reached.
func (c *Client) GetCompanyAds(ctx context.Context, companyName string) ([]model.Ad, error) {
	var ads []model.Ad
	seen := map[string]bool{}
	cursor := ""
	for page := 0; page < c.maxAdPages; page++ {
		var out companyAdsPage
		params := companyAdsParams{CompanyName: companyName, Cursor: cursor}
		if err := c.get(ctx, "/v1/facebook/adLibrary/company/ads", params, &out); err != nil {
			return nil, err
		}
		ads = append(ads, out.Ads...)
		if out.Cursor == "" || seen[out.Cursor] {
			break
		}
		seen[out.Cursor] = true
		cursor = out.Cursor
	}
	if ads == nil {
		ads = []model.Ad{}
	}
	return ads, nil
}

func (c *Client) GetAdDetails(ctx context.Context, adID string) (*model.AdDetails, error) {
	var out model.AdDetails
	if err := c.get(ctx, "/v1/facebook/adLibrary/ad", adDetailParams{AdID: adID}, &out); err != nil {
		return nil, err
	}
	if out.AdArchiveID == "" {
		out.AdArchiveID = adID
	}
	return &out, nil
}
