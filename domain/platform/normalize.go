package platform

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"imospy/domain/event"
)

// Normalize composes the extractors of p into one record.
func Normalize(p Post, now time.Time) NormalizedContent {
	return NormalizedContent{
		ContentID:      p.ContentID(),
		ContentType:    p.ContentType(),
		ContentURL:     p.ContentURL(),
		Caption:        p.Caption(),
		MediaURLs:      StringList(p.MediaURLs()),
		EngagementData: p.Engagement(now),
	}
}

var errNotObject = errors.New("post payload is not a JSON object")

func decodeOne[T any](raw json.RawMessage) (*T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeEach decodes every raw post, skipping (and reporting) the ones that
// cannot be decoded so one bad entry never drops the batch.
func decodeEach[T any](ctx context.Context, p Platform, raws []json.RawMessage, sink event.Sink) []*T {
	out := make([]*T, 0, len(raws))
	for i, raw := range raws {
		v, err := decodeOne[T](raw)
		if err != nil {
			evt := event.New(event.PostDecodeFailed, map[string]interface{}{"index": i, "error": err.Error()})
			evt.Platform = string(p)
			event.OrNop(sink).Emit(ctx, evt)
			continue
		}
		out = append(out, v)
	}
	return out
}

func DecodeInstagramPosts(ctx context.Context, raws []json.RawMessage, sink event.Sink) []Post {
	posts := decodeEach[InstagramPost](ctx, Instagram, raws, sink)
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = p
	}
	return out
}

func DecodeTikTokPosts(ctx context.Context, raws []json.RawMessage, sink event.Sink) []Post {
	posts := decodeEach[TikTokPost](ctx, TikTok, raws, sink)
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = p
	}
	return out
}

// DecodeLinkedInPosts returns listing posts; they become Posts after enrichment.
func DecodeLinkedInPosts(ctx context.Context, raws []json.RawMessage, sink event.Sink) []LinkedInPost {
	posts := decodeEach[LinkedInPost](ctx, LinkedIn, raws, sink)
	out := make([]LinkedInPost, len(posts))
	for i, p := range posts {
		out[i] = *p
	}
	return out
}

// LinkedInPosts adapts enriched posts to the Post strategy.
func LinkedInPosts(enriched []*EnrichedLinkedInPost) []Post {
	out := make([]Post, len(enriched))
	for i, p := range enriched {
		out[i] = p
	}
	return out
}
