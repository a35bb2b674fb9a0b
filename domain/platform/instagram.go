package platform

import (
	"time"
)

// InstagramPost is a timeline media node from the Instagram profile endpoint.
type InstagramPost struct {
	ID                    Text                 `json:"id"`
	Shortcode             Text                 `json:"shortcode"`
	Typename              Str                  `json:"__typename"`
	DisplayURL            Str                  `json:"display_url"`
	IsVideo               Flag                 `json:"is_video"`
	VideoURL              Str                  `json:"video_url"`
	TakenAtTimestamp      Count                `json:"taken_at_timestamp"`
	EdgeMediaToCaption    instagramCaptions    `json:"edge_media_to_caption"`
	EdgeLikedBy           instagramCounter     `json:"edge_liked_by"`
	EdgeMediaToComment    instagramCounter     `json:"edge_media_to_comment"`
	EdgeSidecarToChildren instagramSidecarList `json:"edge_sidecar_to_children"`
}

type instagramCaptions struct {
	Edges List[instagramCaptionEdge] `json:"edges"`
}

func (c *instagramCaptions) UnmarshalJSON(data []byte) error {
	type plain instagramCaptions
	var p plain
	decodeObject(data, &p)
	*c = instagramCaptions(p)
	return nil
}

type instagramCaptionEdge struct {
	Node struct {
		Text Str `json:"text"`
	} `json:"node"`
}

type instagramCounter struct {
	Count Count `json:"count"`
}

func (c *instagramCounter) UnmarshalJSON(data []byte) error {
	type plain instagramCounter
	var p plain
	decodeObject(data, &p)
	*c = instagramCounter(p)
	return nil
}

type instagramSidecarList struct {
	Edges List[instagramSidecarEdge] `json:"edges"`
}

func (l *instagramSidecarList) UnmarshalJSON(data []byte) error {
	type plain instagramSidecarList
	var p plain
	decodeObject(data, &p)
	*l = instagramSidecarList(p)
	return nil
}

type instagramSidecarEdge struct {
	Node InstagramMedia `json:"node"`
}

// InstagramMedia is one child of a carousel post.
type InstagramMedia struct {
	DisplayURL Str  `json:"display_url"`
	IsVideo    Flag `json:"is_video"`
	VideoURL   Str  `json:"video_url"`
}

const (
	instagramSidecar = "GraphSidecar"
	instagramVideo   = "GraphVideo"
	instagramImage   = "GraphImage"
)

func (p *InstagramPost) Platform() Platform { return Instagram }

func (p *InstagramPost) ContentID() string {
	if p.ID != "" {
		return p.ID.String()
	}
	return p.Shortcode.String()
}

func (p *InstagramPost) ContentType() ContentType {
	switch {
	case p.Typename == instagramSidecar:
		return ContentCarousel
	case p.Typename == instagramVideo || bool(p.IsVideo):
		return ContentVideo
	case p.Typename == instagramImage:
		return ContentImage
	}
	return ContentPost
}

func (p *InstagramPost) ContentURL() string {
	if p.Shortcode == "" {
		return ""
	}
	return "https://instagram.com/p/" + p.Shortcode.String() + "/"
}

func (p *InstagramPost) Caption() string {
	if len(p.EdgeMediaToCaption.Edges) == 0 {
		return ""
	}
	return p.EdgeMediaToCaption.Edges[0].Node.Text.String()
}

func (p *InstagramPost) MediaURLs() []string {
	urls := make([]string, 0, 2)
	if p.Typename == instagramSidecar && len(p.EdgeSidecarToChildren.Edges) > 0 {
		for _, edge := range p.EdgeSidecarToChildren.Edges {
			child := edge.Node
			urls = appendNonEmpty(urls, child.DisplayURL.String())
			if child.IsVideo {
				urls = appendNonEmpty(urls, child.VideoURL.String())
			}
		}
		return urls
	}
	urls = appendNonEmpty(urls, p.DisplayURL.String())
	if p.IsVideo {
		urls = appendNonEmpty(urls, p.VideoURL.String())
	}
	return urls
}

func (p *InstagramPost) Engagement(now time.Time) EngagementData {
	ts := now
	if p.TakenAtTimestamp.Number && p.TakenAtTimestamp.N > 0 {
		ts = time.Unix(p.TakenAtTimestamp.N, 0)
	}
	return EngagementData{
		Likes:     p.EdgeLikedBy.Count.value(),
		Comments:  p.EdgeMediaToComment.Count.value(),
		Timestamp: formatTimestamp(ts),
	}
}
