package platform

import (
	"bytes"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// LinkedInPost is a post from the LinkedIn profile or company listing.
type LinkedInPost struct {
	LinkedInCounters
	ID            Text              `json:"id"`
	URL           Str               `json:"url"`
	PostURL       Str               `json:"postUrl"`
	Text          Str               `json:"text"`
	Media         LinkedInMediaList `json:"media"`
	Images        LinkedInMediaList `json:"images"`
	DatePublished Str               `json:"datePublished"`
	Timestamp     Text              `json:"timestamp"`
	PublishedAt   Text              `json:"publishedAt"`
	Author        LinkedInAuthor    `json:"author"`
}

// LinkedInPostDetail is the response of the per-post detail endpoint.
type LinkedInPostDetail struct {
	LinkedInCounters
	Name          json.RawMessage `json:"name"`
	ThumbnailURL  json.RawMessage `json:"thumbnailUrl"`
	UploadDate    json.RawMessage `json:"uploadDate"`
	DatePublished Str             `json:"datePublished"`
	Description   Str             `json:"description"`
	Author        LinkedInAuthor  `json:"author"`
}

// LinkedInCounters are the engagement fields both payloads may carry under
// varying names.
type LinkedInCounters struct {
	LikeCount     Count              `json:"likeCount"`
	Likes         Count              `json:"likes"`
	CommentCount  Count              `json:"commentCount"`
	Comments      Count              `json:"comments"`
	ReactionCount Count              `json:"reactionCount"`
	Reposts       Count              `json:"reposts"`
	Shares        Count              `json:"shares"`
	Stats         LinkedInStats      `json:"stats"`
	Reactions     LinkedInReactions  `json:"reactions"`
	Engagement    LinkedInEngagement `json:"engagement"`
}

type LinkedInStats struct {
	Present        bool              `json:"-"`
	TotalReactions Count             `json:"total_reactions"`
	Reactions      ReactionBreakdown `json:"reactions"`
	Likes          Count             `json:"likes"`
	Comments       Count             `json:"comments"`
	Reposts        Count             `json:"reposts"`
	Shares         Count             `json:"shares"`
}

func (s *LinkedInStats) UnmarshalJSON(data []byte) error {
	type plain LinkedInStats
	var p plain
	present := decodeObject(data, &p)
	*s = LinkedInStats(p)
	s.Present = present
	return nil
}

type LinkedInReactions struct {
	Present  bool  `json:"-"`
	Like     Count `json:"like"`
	Likes    Count `json:"likes"`
	Comments Count `json:"comments"`
	Reposts  Count `json:"reposts"`
	Shares   Count `json:"shares"`
}

func (r *LinkedInReactions) UnmarshalJSON(data []byte) error {
	type plain LinkedInReactions
	var p plain
	present := decodeObject(data, &p)
	*r = LinkedInReactions(p)
	r.Present = present
	return nil
}

type LinkedInEngagement struct {
	Present  bool  `json:"-"`
	Likes    Count `json:"likes"`
	Comments Count `json:"comments"`
	Shares   Count `json:"shares"`
}

func (e *LinkedInEngagement) UnmarshalJSON(data []byte) error {
	type plain LinkedInEngagement
	var p plain
	present := decodeObject(data, &p)
	*e = LinkedInEngagement(p)
	e.Present = present
	return nil
}

// ReactionBreakdown is a per-reaction-type count map such as {"like":3,"praise":1}.
type ReactionBreakdown struct {
	Present bool
	Counts  map[string]Count
}

func (b *ReactionBreakdown) UnmarshalJSON(data []byte) error {
	var counts map[string]Count
	present := decodeObject(data, &counts)
	*b = ReactionBreakdown{Present: present, Counts: counts}
	return nil
}

func (b ReactionBreakdown) Get(key string) Count { return b.Counts[key] }

// Sum adds every numeric entry of the breakdown.
func (b ReactionBreakdown) Sum() int64 {
	var total int64
	for _, c := range b.Counts {
		total += c.value()
	}
	return total
}

type LinkedInAuthor struct {
	Present    bool `json:"-"`
	Name       Str  `json:"name"`
	URL        Str  `json:"url"`
	ProfileURL Str  `json:"profileUrl"`
}

func (a *LinkedInAuthor) UnmarshalJSON(data []byte) error {
	type plain LinkedInAuthor
	var p plain
	present := decodeObject(data, &p)
	*a = LinkedInAuthor(p)
	a.Present = present
	return nil
}

func (a LinkedInAuthor) profile() string {
	if a.ProfileURL != "" {
		return a.ProfileURL.String()
	}
	return a.URL.String()
}

// LinkedInMedia is a media entry; the API sends either a bare URL string or
// an object with a type and url.
type LinkedInMedia struct {
	URL  string
	Type string
}

func (m *LinkedInMedia) UnmarshalJSON(data []byte) error {
	*m = LinkedInMedia{}
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		_ = json.Unmarshal(raw, &m.URL)
		return nil
	}
	var obj struct {
		URL  Str `json:"url"`
		Type Str `json:"type"`
	}
	if decodeObject(raw, &obj) {
		m.URL, m.Type = obj.URL.String(), obj.Type.String()
	}
	return nil
}

func (m LinkedInMedia) isVideo() bool {
	if m.Type == "video" {
		return true
	}
	return strings.Contains(m.URL, ".mp4") || (m.Type == "" && strings.Contains(m.URL, "video"))
}

// LinkedInMediaList decodes to an empty list when the field is not an array.
type LinkedInMediaList []LinkedInMedia

func (l *LinkedInMediaList) UnmarshalJSON(data []byte) error {
	*l = nil
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var items []LinkedInMedia
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	*l = items
	return nil
}

// decodeObject unmarshals raw into v when raw is a JSON object and reports
// whether the value was non-null.
func decodeObject(data []byte, v interface{}) bool {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false
	}
	if raw[0] == '{' {
		_ = json.Unmarshal(raw, v)
	}
	return true
}

func truthyRaw(raw json.RawMessage) bool {
	var c Count
	_ = c.UnmarshalJSON(raw)
	return c.Truthy
}

// EnrichedLinkedInPost is a listing post reconciled with its detail payload.
type EnrichedLinkedInPost struct {
	Post        LinkedInPost
	Description string
	Likes       int64
	Comments    int64
	Reposts     int64
	Enriched    bool
	Estimated   bool
}

// linkedInNamespace seeds the deterministic ids of posts without url or id.
var linkedInNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.linkedin.com/"))

func (p *EnrichedLinkedInPost) Platform() Platform { return LinkedIn }

func (p *EnrichedLinkedInPost) ContentID() string {
	if u := strings.TrimRight(p.Post.URL.String(), "/"); u != "" {
		parts := strings.Split(u, "-")
		if last := parts[len(parts)-1]; last != "" {
			return last
		}
	}
	if p.Post.ID != "" {
		return p.Post.ID.String()
	}
	return p.Post.ContentHash()
}

// ContentHash derives a stable UUIDv5 from the post's own content so posts
// lacking both url and id still upsert onto the same row across scrapes.
func (p *LinkedInPost) ContentHash() string {
	parts := []string{p.PostURL.String(), p.Text.String(), p.DatePublished.String(), p.Timestamp.String(), p.PublishedAt.String(), p.Author.profile()}
	for _, m := range p.Media {
		parts = append(parts, m.URL)
	}
	for _, m := range p.Images {
		parts = append(parts, m.URL)
	}
	return uuid.NewSHA1(linkedInNamespace, []byte(strings.Join(parts, "\x1f"))).String()
}

func (p *EnrichedLinkedInPost) ContentType() ContentType {
	media := p.Post.Media
	if len(media) == 0 {
		return ContentPost
	}
	for _, m := range media {
		if m.isVideo() {
			return ContentVideo
		}
	}
	if len(media) > 1 {
		return ContentCarousel
	}
	return ContentImage
}

func (p *EnrichedLinkedInPost) ContentURL() string {
	switch {
	case p.Post.URL != "":
		return p.Post.URL.String()
	case p.Post.PostURL != "":
		return p.Post.PostURL.String()
	}
	return p.Post.Author.profile()
}

func (p *EnrichedLinkedInPost) Caption() string { return p.Post.Text.String() }

func (p *EnrichedLinkedInPost) MediaURLs() []string {
	urls := make([]string, 0, len(p.Post.Media)+len(p.Post.Images))
	for _, m := range p.Post.Media {
		urls = appendNonEmpty(urls, m.URL)
	}
	for _, m := range p.Post.Images {
		urls = appendNonEmpty(urls, m.URL)
	}
	return urls
}

func (p *EnrichedLinkedInPost) Engagement(now time.Time) EngagementData {
	ts := formatTimestamp(now)
	if t, ok := ParseTime(p.Post.DatePublished.String()); ok {
		ts = formatTimestamp(t)
	} else if p.Post.Timestamp != "" {
		ts = p.Post.Timestamp.String()
	} else if p.Post.PublishedAt != "" {
		ts = p.Post.PublishedAt.String()
	}
	return EngagementData{
		Likes:     p.Likes,
		Comments:  p.Comments,
		Reposts:   int64Ptr(p.Reposts),
		Timestamp: ts,
		Enriched:  boolPtr(p.Enriched),
		Estimated: boolPtr(p.Estimated),
	}
}
