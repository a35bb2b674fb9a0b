package usecase

import (
	"context"
	"fmt"

	"imospy/domain/event"
	"imospy/domain/platform"
	"imospy/domain/repository"
	"imospy/infrastructure/logger"
)

// PostSource lists the recent posts of an account on any supported platform.
type PostSource struct {
	client   repository.IScrapeCreators
	enricher *platform.Enricher
	sink     event.Sink
}

// NewPostSource builds a post source. A nil enricher enriches LinkedIn posts
// through the client without a circuit breaker.
func NewPostSource(client repository.IScrapeCreators, enricher *platform.Enricher, sink event.Sink) *PostSource {
	if enricher == nil {
		enricher = platform.NewEnricher(client).WithSink(sink)
	}
	return &PostSource{client: client, enricher: enricher, sink: event.OrNop(sink)}
}

// Configured reports whether the provider can be called.
func (s *PostSource) Configured() bool {
	return s.client != nil && s.client.Configured()
}

// GetPosts returns the decoded posts of identifier. A failed listing call is
// returned as an error rather than an empty batch.
func (s *PostSource) GetPosts(ctx context.Context, platformName, identifier string) ([]platform.Post, error) {
	p, ok := platform.ParsePlatform(platformName)
	if !ok {
		return nil, ErrUnsupportedPlatform
	}

	switch p {
	case platform.Instagram:
		resp, err := s.client.GetInstagramProfile(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("instagram profile %s: %w", identifier, err)
		}
		return platform.DecodeInstagramPosts(ctx, resp.Posts(), s.sink), nil
	case platform.TikTok:
		resp, err := s.client.GetTikTokVideos(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("tiktok videos %s: %w", identifier, err)
		}
		return platform.DecodeTikTokPosts(ctx, resp.Posts(), s.sink), nil
	default:
		return s.linkedInPosts(ctx, identifier)
	}
}

func (s *PostSource) linkedInPosts(ctx context.Context, identifier string) ([]platform.Post, error) {
	profileURL, companyURL := platform.LinkedInURLs(identifier)

	resp, err := s.client.GetLinkedInProfile(ctx, profileURL)
	if err != nil {
		logger.GetLogger().WithField("profile_url", profileURL).WithField("error", err).Info("LinkedIn profile lookup failed, trying company page")
		evt := event.New(event.LinkedInProfileFallback, map[string]interface{}{
			"profile_url": profileURL,
			"company_url": companyURL,
			"error":       err.Error(),
		})
		evt.Platform = string(platform.LinkedIn)
		s.sink.Emit(ctx, evt)

		resp, err = s.client.GetLinkedInCompany(ctx, companyURL)
		if err != nil {
			return nil, fmt.Errorf("linkedin company %s: %w", companyURL, err)
		}
	}

	listing := platform.DecodeLinkedInPosts(ctx, resp.PostList(), s.sink)
	return platform.LinkedInPosts(s.enricher.Enrich(ctx, listing)), nil
}
