package events

import (
	"context"
	"sync"
	"time"

	"imospy/domain/event"
	"imospy/infrastructure/logger"
)

// AsyncSink hands events to a background worker so slow sinks (brokers) never
// hold up a scrape. Events are dropped when the buffer is full.
type AsyncSink struct {
	name    string
	sink    event.Sink
	timeout time.Duration

	mu       sync.RWMutex
	closed   bool
	queue    chan event.Event
	finished chan struct{}
}

func NewAsyncSink(name string, sink event.Sink, buffer int, timeout time.Duration) *AsyncSink {
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	a := &AsyncSink{
		name:     name,
		sink:     sink,
		timeout:  timeout,
		queue:    make(chan event.Event, buffer),
		finished: make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncSink) Emit(_ context.Context, evt event.Event) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}
	select {
	case a.queue <- evt:
	default:
		logger.GetLogger().WithField("sink", a.name).WithField("event", evt.Name).Warn("event buffer full, dropping event")
	}
}

func (a *AsyncSink) run() {
	defer close(a.finished)
	for evt := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		a.sink.Emit(ctx, evt)
		cancel()
	}
}

// Close stops accepting events and waits until the queue is drained or ctx ends.
func (a *AsyncSink) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
