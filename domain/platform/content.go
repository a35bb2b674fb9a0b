package platform

import (
	"database/sql/driver"
	"errors"

	"github.com/goccy/go-json"
)

// NormalizedContent is the platform-agnostic record produced for every post.
type NormalizedContent struct {
	ContentID      string         `json:"content_id"`
	ContentType    ContentType    `json:"content_type"`
	ContentURL     string         `json:"content_url"`
	Caption        string         `json:"caption"`
	MediaURLs      StringList     `json:"media_urls"`
	EngagementData EngagementData `json:"engagement_data"`
}

// EngagementData holds the counters shared by every platform plus the
// platform-specific ones, which are omitted when not applicable.
type EngagementData struct {
	Plays     *int64 `json:"plays,omitempty"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Shares    *int64 `json:"shares,omitempty"`
	Reposts   *int64 `json:"reposts,omitempty"`
	Timestamp string `json:"timestamp"`
	Enriched  *bool  `json:"_enriched,omitempty"`
	Estimated *bool  `json:"_estimated,omitempty"`
}

func (e EngagementData) Value() (driver.Value, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (e *EngagementData) Scan(value interface{}) error {
	b, err := scanBytes(value)
	if err != nil || len(b) == 0 {
		*e = EngagementData{}
		return err
	}
	return json.Unmarshal(b, e)
}

// StringList is an ordered list of strings stored as a JSON array.
type StringList []string

func (sl StringList) Value() (driver.Value, error) {
	if len(sl) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(sl))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (sl *StringList) Scan(value interface{}) error {
	b, err := scanBytes(value)
	if err != nil || len(b) == 0 {
		*sl = StringList{}
		return err
	}
	return json.Unmarshal(b, (*[]string)(sl))
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported type for JSON column")
	}
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
