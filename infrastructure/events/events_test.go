package events_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imospy/domain/event"
	"imospy/infrastructure/events"
	"imospy/infrastructure/logger"
)

func TestLogSink_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(nopWriter{}) })

	evt := event.New(event.LinkedInDetailFailed, map[string]interface{}{"post_url": "https://x"})
	evt.Platform = "linkedin"
	events.NewLogSink().Emit(context.Background(), evt)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "warning", line["level"])
	assert.Equal(t, event.LinkedInDetailFailed, line["event"])
	assert.Equal(t, "linkedin", line["platform"])
	assert.Equal(t, "https://x", line["post_url"])
}

func TestLogSink_InfoForRegularEvents(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(nopWriter{}) })

	events.NewLogSink().Emit(context.Background(), event.New(event.ScrapeCompleted, nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "info", line["level"])
}

type collector struct {
	mu    sync.Mutex
	names []string
	block chan struct{}
}

func (c *collector) Emit(_ context.Context, evt event.Event) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, evt.Name)
}

func (c *collector) got() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

func TestAsyncSink_DeliversInOrderAndDrainsOnClose(t *testing.T) {
	c := &collector{}
	async := events.NewAsyncSink("test", c, 16, time.Second)

	async.Emit(context.Background(), event.New("a", nil))
	async.Emit(context.Background(), event.New("b", nil))
	async.Emit(context.Background(), event.New("c", nil))

	require.NoError(t, async.Close(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, c.got())

	// emitting after close is ignored
	async.Emit(context.Background(), event.New("d", nil))
	assert.Len(t, c.got(), 3)
	require.NoError(t, async.Close(context.Background()))
}

func TestAsyncSink_DropsWhenFull(t *testing.T) {
	c := &collector{block: make(chan struct{})}
	async := events.NewAsyncSink("test", c, 1, time.Second)

	for i := 0; i < 10; i++ {
		async.Emit(context.Background(), event.New("e", nil))
	}
	close(c.block)
	require.NoError(t, async.Close(context.Background()))

	// one in the worker plus at most one buffered
	assert.LessOrEqual(t, len(c.got()), 2)
	assert.GreaterOrEqual(t, len(c.got()), 1)
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &collector{}, &collector{}
	event.Multi{a, nil, b}.Emit(context.Background(), event.New(event.ScrapeStarted, nil))
	assert.Equal(t, []string{event.ScrapeStarted}, a.got())
	assert.Equal(t, []string{event.ScrapeStarted}, b.got())
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
