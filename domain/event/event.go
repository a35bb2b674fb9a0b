package event

import (
	"context"
	"time"
)

// Names of events emitted by the scraping and analysis pipelines.
const (
	PostDecodeFailed        = "post.decode_failed"
	ContentSkippedNoID      = "content.skipped_no_id"
	LinkedInDetailFailed    = "linkedin.enrich.detail_failed"
	LinkedInEnriched        = "linkedin.enrich.enriched"
	LinkedInEstimated       = "linkedin.enrich.estimated"
	LinkedInSkippedNoURL    = "linkedin.enrich.skipped_no_url"
	LinkedInProfileFallback = "linkedin.profile_fallback"
	ScrapeStarted           = "scrape.started"
	ScrapeCompleted         = "scrape.completed"
	ScrapeFailed            = "scrape.failed"
	AdsStartUnparseable     = "ads.start_unparseable"
	AdsAnalyzed             = "ads.analyzed"
)

// Event is a structured observability record. Fields must be JSON-encodable.
type Event struct {
	Name     string                 `json:"name"`
	Platform string                 `json:"platform,omitempty"`
	UserID   string                 `json:"user_id,omitempty"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
	At       time.Time              `json:"at"`
}

// New builds an event stamped with the current time.
func New(name string, fields map[string]interface{}) Event {
	return Event{Name: name, Fields: fields, At: time.Now().UTC()}
}

// Sink receives events. Implementations must be safe for concurrent use and
// must not block the caller for long.
type Sink interface {
	Emit(ctx context.Context, evt Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}

// Func adapts a function to Sink.
type Func func(ctx context.Context, evt Event)

func (f Func) Emit(ctx context.Context, evt Event) { f(ctx, evt) }

// Multi fans an event out to several sinks in order.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, evt Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ctx, evt)
		}
	}
}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}
