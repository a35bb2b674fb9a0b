package repository

import (
	"context"

	"imospy/domain/dto"
	"imospy/domain/model"
	"imospy/domain/platform"
)

// IScrapeCreators is the scraping provider.
type IScrapeCreators interface {
	Configured() bool
	GetInstagramProfile(ctx context.Context, handle string) (*dto.InstagramProfileResponse, error)
	GetTikTokVideos(ctx context.Context, handle string) (*dto.TikTokVideosResponse, error)
	GetLinkedInProfile(ctx context.Context, url string) (*dto.LinkedInProfileResponse, error)
	GetLinkedInCompany(ctx context.Context, url string) (*dto.LinkedInProfileResponse, error)
	GetLinkedInPost(ctx context.Context, url string) (*platform.LinkedInPostDetail, error)
	GetCompanyAds(ctx context.Context, companyName string) ([]model.Ad, error)
	GetAdDetails(ctx context.Context, adID string) (*model.AdDetails, error)
}

// StatusError is implemented by provider errors that carry the upstream
// HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
}
