package platform

import (
	"time"
)

// TikTokPost is one entry of the TikTok profile videos listing.
type TikTokPost struct {
	ID         Text         `json:"id"`
	Desc       Str          `json:"desc"`
	URL        Str          `json:"url"`
	CreateTime Count        `json:"createTime"`
	Author     tiktokAuthor `json:"author"`
	Video      tiktokVideo  `json:"video"`
	Stats      tiktokStats  `json:"stats"`
}

type tiktokAuthor struct {
	UniqueID Str `json:"uniqueId"`
}

func (a *tiktokAuthor) UnmarshalJSON(data []byte) error {
	type plain tiktokAuthor
	var p plain
	decodeObject(data, &p)
	*a = tiktokAuthor(p)
	return nil
}

type tiktokVideo struct {
	PlayAddr     Str `json:"playAddr"`
	Cover        Str `json:"cover"`
	DynamicCover Str `json:"dynamicCover"`
}

func (v *tiktokVideo) UnmarshalJSON(data []byte) error {
	type plain tiktokVideo
	var p plain
	decodeObject(data, &p)
	*v = tiktokVideo(p)
	return nil
}

type tiktokStats struct {
	PlayCount    Count `json:"playCount"`
	LikeCount    Count `json:"likeCount"`
	DiggCount    Count `json:"diggCount"`
	CommentCount Count `json:"commentCount"`
	ShareCount   Count `json:"shareCount"`
}

func (s *tiktokStats) UnmarshalJSON(data []byte) error {
	type plain tiktokStats
	var p plain
	decodeObject(data, &p)
	*s = tiktokStats(p)
	return nil
}

func (p *TikTokPost) Platform() Platform { return TikTok }

func (p *TikTokPost) ContentID() string { return p.ID.String() }

// ContentType is always video: TikTok has no other post kind.
func (p *TikTokPost) ContentType() ContentType { return ContentVideo }

func (p *TikTokPost) ContentURL() string {
	if p.URL != "" {
		return p.URL.String()
	}
	if p.ID != "" && p.Author.UniqueID != "" {
		return "https://www.tiktok.com/@" + p.Author.UniqueID.String() + "/video/" + p.ID.String()
	}
	return p.Video.PlayAddr.String()
}

func (p *TikTokPost) Caption() string { return p.Desc.String() }

func (p *TikTokPost) MediaURLs() []string {
	return appendNonEmpty(make([]string, 0, 3), p.Video.Cover.String(), p.Video.DynamicCover.String(), p.Video.PlayAddr.String())
}

func (p *TikTokPost) Engagement(now time.Time) EngagementData {
	ts := now
	if p.CreateTime.Number && p.CreateTime.N > 0 {
		ts = time.Unix(p.CreateTime.N, 0)
	}
	likes, ok := firstNumber(p.Stats.LikeCount)
	if !ok {
		likes = p.Stats.DiggCount.value()
	}
	return EngagementData{
		Plays:     int64Ptr(p.Stats.PlayCount.value()),
		Likes:     likes,
		Comments:  p.Stats.CommentCount.value(),
		Shares:    int64Ptr(p.Stats.ShareCount.value()),
		Timestamp: formatTimestamp(ts),
	}
}
