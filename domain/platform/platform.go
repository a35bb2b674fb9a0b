package platform

import (
	"strings"
	"time"
)

// Platform identifies a supported social network.
type Platform string

const (
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
	LinkedIn  Platform = "linkedin"
)

// Supported lists the platforms accounts can be tracked on.
var Supported = []Platform{Instagram, TikTok, LinkedIn}

// ParsePlatform matches s case-insensitively against the supported platforms.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, sp := range Supported {
		if p == sp {
			return p, true
		}
	}
	return "", false
}

type ContentType string

const (
	ContentPost     ContentType = "post"
	ContentImage    ContentType = "image"
	ContentVideo    ContentType = "video"
	ContentCarousel ContentType = "carousel"
)

// Post is the per-platform extraction strategy. Implementations are pure and
// total: missing or malformed fields degrade to zero values.
type Post interface {
	Platform() Platform
	ContentID() string
	ContentType() ContentType
	ContentURL() string
	Caption() string
	MediaURLs() []string
	Engagement(now time.Time) EngagementData
}

// isoLayout matches the millisecond UTC form used in stored timestamps.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func appendNonEmpty(dst []string, values ...string) []string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
