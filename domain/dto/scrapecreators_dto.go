package dto

import "github.com/goccy/go-json"

// InstagramProfileResponse is the envelope of /v1/instagram/profile
type InstagramProfileResponse struct {
	Data struct {
		User struct {
			Username                 string `json:"username"`
			FullName                 string `json:"full_name"`
			EdgeOwnerToTimelineMedia struct {
				Count int64 `json:"count"`
				Edges []struct {
					Node json.RawMessage `json:"node"`
				} `json:"edges"`
			} `json:"edge_owner_to_timeline_media"`
		} `json:"user"`
	} `json:"data"`
}

// Posts returns the raw timeline nodes.
func (r *InstagramProfileResponse) Posts() []json.RawMessage {
	edges := r.Data.User.EdgeOwnerToTimelineMedia.Edges
	out := make([]json.RawMessage, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.Node)
	}
	return out
}

// TikTokVideosResponse is the envelope of /v1/tiktok/profile/videos
type TikTokVideosResponse struct {
	Videos    []json.RawMessage `json:"videos"`
	AwemeList []json.RawMessage `json:"aweme_list"`
}

func (r *TikTokVideosResponse) Posts() []json.RawMessage {
	if len(r.Videos) > 0 {
		return r.Videos
	}
	return r.AwemeList
}

// LinkedInProfileResponse is the envelope of the LinkedIn profile and
// company endpoints
type LinkedInProfileResponse struct {
	Name        string            `json:"name"`
	RecentPosts []json.RawMessage `json:"recentPosts"`
	Posts       []json.RawMessage `json:"posts"`
}

// PostList prefers posts over recentPosts, as company pages send both.
func (r *LinkedInProfileResponse) PostList() []json.RawMessage {
	if r.Posts != nil {
		return r.Posts
	}
	return r.RecentPosts
}
