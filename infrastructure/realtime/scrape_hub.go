package realtime

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"imospy/domain/event"
)

// ScrapeEvent is the SSE payload pushed to a user's dashboard.
type ScrapeEvent struct {
	Type     string                 `json:"type"`
	Name     string                 `json:"name"`
	Platform string                 `json:"platform,omitempty"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
	At       time.Time              `json:"at"`
}

// Hub maintains per-user subscribers listening for scrape events.
type Hub struct {
	mu        sync.RWMutex
	users     map[string]map[chan ScrapeEvent]struct{}
	keepAlive time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		users:     make(map[string]map[chan ScrapeEvent]struct{}),
		keepAlive: 25 * time.Second,
		done:      make(chan struct{}),
	}
}

// Close ends every open stream. Serve returns immediately afterwards.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Serve registers an SSE stream for the authenticated user (user_id set by middleware).
func (h *Hub) Serve(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan ScrapeEvent, 8)
	h.addSubscriber(userID, ch)
	defer h.removeSubscriber(userID, ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-h.done:
			return
		case <-ticker.C:
			_, _ = c.Writer.Write([]byte(":ping\n\n"))
			c.Writer.Flush()
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: " + evt.Type + "\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

// Emit forwards scrape events to the subscribers of the event's user. Events
// without a user, or not about scraping, are ignored.
func (h *Hub) Emit(_ context.Context, evt event.Event) {
	if evt.UserID == "" || !strings.HasPrefix(evt.Name, "scrape.") {
		return
	}
	payload := ScrapeEvent{
		Type:     "scrape_status",
		Name:     evt.Name,
		Platform: evt.Platform,
		Fields:   evt.Fields,
		At:       evt.At,
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.users[evt.UserID] {
		select { // non-blocking
		case ch <- payload:
		default:
		}
	}
}

// Subscribers returns the number of open streams for a user.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func (h *Hub) addSubscriber(userID string, ch chan ScrapeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[chan ScrapeEvent]struct{})
	}
	h.users[userID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(userID string, ch chan ScrapeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.users[userID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
}
