package platform_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imospy/domain/event"
	"imospy/domain/platform"
)

type fakeFetcher struct {
	mu      sync.Mutex
	details map[string]string
	calls   []string
}

func (f *fakeFetcher) GetLinkedInPost(_ context.Context, postURL string) (*platform.LinkedInPostDetail, error) {
	f.mu.Lock()
	f.calls = append(f.calls, postURL)
	f.mu.Unlock()

	raw, ok := f.details[postURL]
	if !ok {
		return nil, errors.New("upstream unavailable")
	}
	var d platform.LinkedInPostDetail
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *recordingSink) Emit(_ context.Context, evt event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.Name
	}
	return out
}

func linkedInPosts(t *testing.T, raws ...string) []platform.LinkedInPost {
	t.Helper()
	msgs := make([]json.RawMessage, len(raws))
	for i, r := range raws {
		msgs[i] = json.RawMessage(r)
	}
	posts := platform.DecodeLinkedInPosts(context.Background(), msgs, nil)
	require.Len(t, posts, len(raws))
	return posts
}

func enrichOne(t *testing.T, enricher *platform.Enricher, raw string) *platform.EnrichedLinkedInPost {
	t.Helper()
	out := enricher.Enrich(context.Background(), linkedInPosts(t, raw))
	require.Len(t, out, 1)
	return out[0]
}

func TestEnrich_DetailFailureKeepsListingCounts(t *testing.T) {
	sink := &recordingSink{}
	enricher := platform.NewEnricher(&fakeFetcher{}).
		WithEstimator(platform.NewRatioEstimator(10, 10, nil)).
		WithSink(sink)

	got := enrichOne(t, enricher, `{"url":"https://www.linkedin.com/posts/a-1","reactions":{"likes":3,"comments":1}}`)

	assert.Equal(t, int64(3), got.Likes)
	assert.Equal(t, int64(1), got.Comments)
	assert.False(t, got.Enriched)
	assert.False(t, got.Estimated)
	assert.Equal(t, []string{event.LinkedInDetailFailed}, sink.names())

	eng := got.Engagement(fixedNow)
	require.NotNil(t, eng.Enriched)
	require.NotNil(t, eng.Estimated)
	assert.False(t, *eng.Enriched)
	assert.False(t, *eng.Estimated)
}

func TestEnrich_FailureNeverEstimates(t *testing.T) {
	enricher := platform.NewEnricher(&fakeFetcher{}).WithEstimator(platform.NewRatioEstimator(10, 10, nil))

	got := enrichOne(t, enricher, `{"url":"https://www.linkedin.com/posts/a-1","comments":5}`)

	assert.Equal(t, int64(0), got.Likes)
	assert.Equal(t, int64(5), got.Comments)
	assert.False(t, got.Estimated)
}

func TestEnrich_NoURLSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	sink := &recordingSink{}
	enricher := platform.NewEnricher(fetcher).WithSink(sink)

	got := enrichOne(t, enricher, `{"id":"9","likes":2}`)

	assert.Empty(t, fetcher.calls)
	assert.Equal(t, int64(2), got.Likes)
	assert.False(t, got.Enriched)
	assert.Equal(t, []string{event.LinkedInSkippedNoURL}, sink.names())
}

func TestEnrich_EstimatesTextPostLikes(t *testing.T) {
	url := "https://www.linkedin.com/posts/alice-topic-77"
	fetcher := &fakeFetcher{details: map[string]string{url: `{"description":"full text","commentCount":4}`}}
	sink := &recordingSink{}
	enricher := platform.NewEnricher(fetcher).
		WithEstimator(platform.NewRatioEstimator(10, 10, nil)).
		WithSink(sink)

	got := enrichOne(t, enricher, `{"url":"`+url+`","comments":1}`)

	assert.Equal(t, int64(4), got.Comments, "detail comment count wins")
	assert.Equal(t, int64(40), got.Likes)
	assert.True(t, got.Estimated)
	assert.False(t, got.Enriched)
	assert.Equal(t, []string{event.LinkedInEstimated}, sink.names())
}

func TestEnrich_EstimateWithinRange(t *testing.T) {
	url := "https://www.linkedin.com/posts/a-5"
	fetcher := &fakeFetcher{details: map[string]string{url: `{}`}}
	enricher := platform.NewEnricher(fetcher)

	got := enrichOne(t, enricher, `{"url":"`+url+`","comments":3}`)

	assert.GreaterOrEqual(t, got.Likes, int64(30))
	assert.LessOrEqual(t, got.Likes, int64(60))
	assert.True(t, got.Estimated)
}

func TestEnrich_VideoPostIsNotEstimated(t *testing.T) {
	url := "https://www.linkedin.com/posts/a-8"
	fetcher := &fakeFetcher{details: map[string]string{url: `{"name":"clip","thumbnailUrl":"t.jpg","uploadDate":"2024-01-01"}`}}
	enricher := platform.NewEnricher(fetcher).WithEstimator(platform.NewRatioEstimator(10, 10, nil))

	got := enrichOne(t, enricher, `{"url":"`+url+`","comments":6}`)

	assert.Equal(t, int64(0), got.Likes)
	assert.Equal(t, int64(6), got.Comments)
	assert.False(t, got.Estimated)
}

func TestEnrich_NoEstimatorDisablesEstimation(t *testing.T) {
	url := "https://www.linkedin.com/posts/a-8"
	fetcher := &fakeFetcher{details: map[string]string{url: `{}`}}
	enricher := platform.NewEnricher(fetcher).WithEstimator(platform.EstimatorByName("none"))

	got := enrichOne(t, enricher, `{"url":"`+url+`","comments":6}`)

	assert.Equal(t, int64(0), got.Likes)
	assert.False(t, got.Estimated)
}

func TestEnrich_EnrichedPriorityOrder(t *testing.T) {
	tests := []struct {
		name                     string
		post                     string
		detail                   string
		likes, comments, reposts int64
	}{
		{
			name:   "top level detail fields",
			post:   `{"likes":1,"comments":1,"reposts":1}`,
			detail: `{"likeCount":10,"commentCount":20,"reactionCount":30,"stats":{"total_reactions":99}}`,
			likes:  10, comments: 20, reposts: 30,
		},
		{
			name:   "nested stats",
			post:   `{}`,
			detail: `{"stats":{"total_reactions":12,"comments":4,"shares":2}}`,
			likes:  12, comments: 4, reposts: 2,
		},
		{
			name:   "reaction breakdown is summed",
			post:   `{}`,
			detail: `{"stats":{"reactions":{"praise":3,"empathy":1}}}`,
			likes:  4,
		},
		{
			name:   "falls back to listing post",
			post:   `{"likeCount":5,"commentCount":6,"shares":7}`,
			detail: `{"engagement":{}}`,
			likes:  5, comments: 6, reposts: 7,
		},
		{
			name:   "listing reactions last",
			post:   `{"reactions":{"like":8,"comments":2,"reposts":1}}`,
			detail: `{"reactions":{}}`,
			likes:  8, comments: 2, reposts: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "https://www.linkedin.com/posts/a-1"
			fetcher := &fakeFetcher{details: map[string]string{url: tt.detail}}
			enricher := platform.NewEnricher(fetcher)

			var post map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.post), &post))
			post["url"] = url
			raw, err := json.Marshal(post)
			require.NoError(t, err)

			got := enrichOne(t, enricher, string(raw))

			assert.True(t, got.Enriched)
			assert.False(t, got.Estimated)
			assert.Equal(t, tt.likes, got.Likes)
			assert.Equal(t, tt.comments, got.Comments)
			assert.Equal(t, tt.reposts, got.Reposts)
		})
	}
}

func TestEnrich_DetailOverridesMetadata(t *testing.T) {
	url := "https://www.linkedin.com/posts/a-1"
	fetcher := &fakeFetcher{details: map[string]string{url: `{"likes":3,"datePublished":"2024-01-02T03:04:05Z",
		"description":"long form","author":{"name":"Alice","url":"https://www.linkedin.com/in/alice"}}`}}

	got := enrichOne(t, platform.NewEnricher(fetcher), `{"url":"`+url+`","text":"short"}`)

	assert.Equal(t, "long form", got.Description)
	assert.Equal(t, "short", got.Caption())
	assert.Equal(t, "Alice", got.Post.Author.Name.String())
	assert.Equal(t, "2024-01-02T03:04:05.000Z", got.Engagement(fixedNow).Timestamp)
}

func TestEnrich_PreservesOrderUnderConcurrency(t *testing.T) {
	details := map[string]string{}
	raws := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		url := "https://www.linkedin.com/posts/p-" + string(rune('a'+i))
		if i%3 != 0 {
			details[url] = `{"likeCount":5}`
		}
		raws = append(raws, `{"url":"`+url+`"}`)
	}
	enricher := platform.NewEnricher(&fakeFetcher{details: details}).WithConcurrency(3)

	out := enricher.Enrich(context.Background(), linkedInPosts(t, raws...))

	require.Len(t, out, 12)
	for i, p := range out {
		assert.Equal(t, string(rune('a'+i)), p.ContentID())
		assert.Equal(t, i%3 != 0, p.Enriched)
	}
}

func TestLinkedIn_ContentID(t *testing.T) {
	enricher := platform.NewEnricher(nil)
	withURL := enrichOne(t, enricher, `{"id":"1","url":"https://www.linkedin.com/posts/alice_topic-activity-7123/"}`)
	assert.Equal(t, "7123", withURL.ContentID())

	withID := enrichOne(t, enricher, `{"id":987}`)
	assert.Equal(t, "987", withID.ContentID())

	a := enrichOne(t, enricher, `{"text":"hello","datePublished":"2024-01-01"}`)
	b := enrichOne(t, enricher, `{"text":"hello","datePublished":"2024-01-01"}`)
	c := enrichOne(t, enricher, `{"text":"other","datePublished":"2024-01-01"}`)
	assert.NotEmpty(t, a.ContentID())
	assert.Equal(t, a.ContentID(), b.ContentID())
	assert.NotEqual(t, a.ContentID(), c.ContentID())
}

func TestLinkedIn_ContentTypeAndMedia(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  platform.ContentType
		media []string
	}{
		{"no media", `{}`, platform.ContentPost, []string{}},
		{"media not a list", `{"media":"x.jpg"}`, platform.ContentPost, []string{}},
		{"single image", `{"media":["a.jpg"]}`, platform.ContentImage, []string{"a.jpg"}},
		{"carousel", `{"media":["a.jpg",{"url":"b.jpg","type":"image"}],"images":["c.jpg",""]}`, platform.ContentCarousel, []string{"a.jpg", "b.jpg", "c.jpg"}},
		{"typed video", `{"media":["a.jpg",{"url":"x","type":"video"}]}`, platform.ContentVideo, []string{"a.jpg", "x"}},
		{"mp4 url", `{"media":[{"url":"clip.mp4","type":"image"}]}`, platform.ContentVideo, []string{"clip.mp4"}},
	}
	enricher := platform.NewEnricher(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := enrichOne(t, enricher, tt.raw)
			assert.Equal(t, tt.want, got.ContentType())
			assert.Equal(t, tt.media, got.MediaURLs())
		})
	}
}

func TestLinkedIn_ContentURLFallsBackToProfile(t *testing.T) {
	enricher := platform.NewEnricher(nil)
	assert.Equal(t, "https://p", enrichOne(t, enricher, `{"postUrl":"https://p"}`).ContentURL())
	assert.Equal(t, "https://www.linkedin.com/in/alice",
		enrichOne(t, enricher, `{"author":{"profileUrl":"https://www.linkedin.com/in/alice"}}`).ContentURL())
}

func TestLinkedIn_NormalizeThroughPostInterface(t *testing.T) {
	enricher := platform.NewEnricher(nil)
	posts := platform.LinkedInPosts(enricher.Enrich(context.Background(),
		linkedInPosts(t, `{"url":"https://www.linkedin.com/posts/x-1","text":"hi","likes":2,"timestamp":"2024-03-03T00:00:00.000Z"}`)))
	require.Len(t, posts, 1)

	got := platform.Normalize(posts[0], fixedNow)
	assert.Equal(t, "1", got.ContentID)
	assert.Equal(t, "hi", got.Caption)
	assert.Equal(t, int64(2), got.EngagementData.Likes)
	assert.Equal(t, "2024-03-03T00:00:00.000Z", got.EngagementData.Timestamp)
	require.NotNil(t, got.EngagementData.Reposts)
}
