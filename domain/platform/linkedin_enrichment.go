package platform

import (
	"context"

	"golang.org/x/sync/errgroup"

	"imospy/domain/event"
)

// DetailFetcher loads the detail payload of a single LinkedIn post.
type DetailFetcher interface {
	GetLinkedInPost(ctx context.Context, postURL string) (*LinkedInPostDetail, error)
}

const defaultEnrichConcurrency = 5

// Enricher reconciles listing posts with their per-post detail payloads.
// A failed detail call only degrades the affected post.
type Enricher struct {
	fetcher     DetailFetcher
	estimator   LikeEstimator
	sink        event.Sink
	concurrency int
}

func NewEnricher(fetcher DetailFetcher) *Enricher {
	return &Enricher{
		fetcher:     fetcher,
		estimator:   NewRatioEstimator(10, 20, nil),
		sink:        event.Nop{},
		concurrency: defaultEnrichConcurrency,
	}
}

// WithEstimator replaces the like estimator (fluent).
func (e *Enricher) WithEstimator(estimator LikeEstimator) *Enricher {
	if estimator == nil {
		estimator = NoEstimator{}
	}
	e.estimator = estimator
	return e
}

// WithSink sets the event sink (fluent).
func (e *Enricher) WithSink(sink event.Sink) *Enricher {
	e.sink = event.OrNop(sink)
	return e
}

// WithConcurrency bounds the number of in-flight detail calls (fluent).
func (e *Enricher) WithConcurrency(n int) *Enricher {
	if n <= 0 {
		n = defaultEnrichConcurrency
	}
	e.concurrency = n
	return e
}

// Enrich returns one enriched post per input post, in input order.
func (e *Enricher) Enrich(ctx context.Context, posts []LinkedInPost) []*EnrichedLinkedInPost {
	out := make([]*EnrichedLinkedInPost, len(posts))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i := range posts {
		g.Go(func() error {
			out[i] = e.enrichOne(ctx, &posts[i])
			return nil
		})
	}
	_ = g.Wait()
	return out
}

type linkedInBaseline struct {
	likes, comments, reposts int64
}

func baselineOf(post *LinkedInPost) linkedInBaseline {
	return linkedInBaseline{
		likes:    firstPresent(post.Reactions.Likes, post.Likes, post.LikeCount),
		comments: firstPresent(post.Reactions.Comments, post.Comments, post.CommentCount),
		reposts:  firstPresent(post.Reactions.Reposts, post.Reposts, post.Shares),
	}
}

func (e *Enricher) enrichOne(ctx context.Context, post *LinkedInPost) *EnrichedLinkedInPost {
	base := baselineOf(post)
	fallback := &EnrichedLinkedInPost{
		Post:        *post,
		Description: post.Text.String(),
		Likes:       base.likes,
		Comments:    base.comments,
		Reposts:     base.reposts,
	}

	postURL := post.URL.String()
	if postURL == "" {
		postURL = post.PostURL.String()
	}
	if postURL == "" || e.fetcher == nil {
		e.emit(ctx, event.LinkedInSkippedNoURL, map[string]interface{}{"post_id": post.ID.String()})
		return fallback
	}

	detail, err := e.fetcher.GetLinkedInPost(ctx, postURL)
	if err != nil || detail == nil {
		fields := map[string]interface{}{"post_url": postURL}
		if err != nil {
			fields["error"] = err.Error()
		}
		e.emit(ctx, event.LinkedInDetailFailed, fields)
		return fallback
	}

	if !detail.hasEngagementData() {
		comments := base.comments
		if detail.CommentCount.Present {
			comments = detail.CommentCount.value()
		}
		likes := base.likes
		if !detail.isVideo() && comments > 0 && base.likes == 0 {
			likes = e.estimator.EstimateLikes(comments)
		}
		fallback.Likes = likes
		fallback.Comments = comments
		fallback.Estimated = likes > base.likes
		if fallback.Estimated {
			e.emit(ctx, event.LinkedInEstimated, map[string]interface{}{
				"post_url": postURL, "comments": comments, "estimated_likes": likes,
			})
		}
		return fallback
	}

	enriched := &EnrichedLinkedInPost{
		Post:        *post,
		Description: post.Text.String(),
		Likes:       extractLikes(detail, post),
		Comments:    extractComments(detail, post),
		Reposts:     extractReposts(detail, post),
		Enriched:    true,
	}
	if detail.DatePublished != "" {
		enriched.Post.DatePublished = detail.DatePublished
	}
	if detail.Author.Present {
		enriched.Post.Author = detail.Author
	}
	if detail.Description != "" {
		enriched.Description = detail.Description.String()
	}
	e.emit(ctx, event.LinkedInEnriched, map[string]interface{}{
		"post_url": postURL, "likes": enriched.Likes, "comments": enriched.Comments, "reposts": enriched.Reposts,
	})
	return enriched
}

func (e *Enricher) emit(ctx context.Context, name string, fields map[string]interface{}) {
	evt := event.New(name, fields)
	evt.Platform = string(LinkedIn)
	e.sink.Emit(ctx, evt)
}

func (d *LinkedInPostDetail) hasEngagementData() bool {
	return d.LikeCount.Truthy || d.Likes.Truthy || d.Stats.Present || d.Reactions.Present || d.Engagement.Present
}

// isVideo reports whether the detail describes a video post; video payloads
// carry schema.org VideoObject fields.
func (d *LinkedInPostDetail) isVideo() bool {
	return truthyRaw(d.Name) || truthyRaw(d.ThumbnailURL) || truthyRaw(d.UploadDate)
}

func extractLikes(d *LinkedInPostDetail, p *LinkedInPost) int64 {
	if n, ok := firstNumber(d.LikeCount, d.Likes); ok {
		return n
	}
	if n, ok := firstTruthy(d.Stats.TotalReactions, d.Stats.Reactions.Get("like"), d.Reactions.Like, d.Engagement.Likes); ok {
		return n
	}
	if d.Stats.Reactions.Present {
		return d.Stats.Reactions.Sum()
	}
	if n, ok := firstNumber(p.LikeCount, p.Likes); ok {
		return n
	}
	n, _ := firstTruthy(p.Reactions.Likes, p.Reactions.Like, p.Stats.Likes, p.Engagement.Likes)
	return n
}

func extractComments(d *LinkedInPostDetail, p *LinkedInPost) int64 {
	if n, ok := firstNumber(d.CommentCount, d.Comments); ok {
		return n
	}
	if n, ok := firstTruthy(d.Stats.Comments, d.Engagement.Comments); ok {
		return n
	}
	if n, ok := firstNumber(p.CommentCount, p.Comments); ok {
		return n
	}
	n, _ := firstTruthy(p.Reactions.Comments, p.Stats.Comments)
	return n
}

func extractReposts(d *LinkedInPostDetail, p *LinkedInPost) int64 {
	if n, ok := firstNumber(d.ReactionCount, d.Reposts, d.Shares); ok {
		return n
	}
	if n, ok := firstTruthy(d.Stats.Reposts, d.Stats.Shares, d.Engagement.Shares); ok {
		return n
	}
	if n, ok := firstNumber(p.Reposts, p.Shares); ok {
		return n
	}
	n, _ := firstTruthy(p.Reactions.Reposts, p.Reactions.Shares, p.Stats.Reposts, p.Stats.Shares)
	return n
}
