package servicebus_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imospy/domain/event"
	"imospy/infrastructure/servicebus"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []*azservicebus.Message
	err    error
	closed bool
}

func (f *fakeSender) SendMessage(_ context.Context, m *azservicebus.Message, _ *azservicebus.SendMessageOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSender) Close(context.Context) error {
	f.closed = true
	return nil
}

func TestEventSender_SendsJSONWithSubject(t *testing.T) {
	fake := &fakeSender{}
	sender := servicebus.NewEventSenderWith(fake)

	evt := event.New(event.ScrapeFailed, map[string]interface{}{"error": "boom"})
	evt.Platform = "linkedin"
	require.NoError(t, sender.Send(context.Background(), evt))

	require.Len(t, fake.sent, 1)
	msg := fake.sent[0]
	require.NotNil(t, msg.Subject)
	assert.Equal(t, event.ScrapeFailed, *msg.Subject)
	assert.Equal(t, "linkedin", msg.ApplicationProperties["platform"])

	var got event.Event
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, "boom", got.Fields["error"])

	require.NoError(t, sender.Close(context.Background()))
	assert.True(t, fake.closed)
}

func TestEventSender_EmitSwallowsErrors(t *testing.T) {
	fake := &fakeSender{err: errors.New("queue unavailable")}
	sender := servicebus.NewEventSenderWith(fake)

	assert.NotPanics(t, func() {
		sender.Emit(context.Background(), event.New(event.ScrapeCompleted, nil))
	})
	assert.Error(t, sender.Send(context.Background(), event.New(event.ScrapeCompleted, nil)))
}

func TestEventSender_NilClientIsNoop(t *testing.T) {
	sender := servicebus.NewEventSender(nil, "q")
	require.NoError(t, sender.Send(context.Background(), event.New(event.ScrapeCompleted, nil)))
	require.NoError(t, sender.Close(context.Background()))
}
