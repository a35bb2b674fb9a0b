package servicebus

import (
	"context"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/goccy/go-json"

	"imospy/domain/event"
	"imospy/infrastructure/logger"
)

// NewServiceBus connects to a Service Bus namespace with the default Azure
// credential chain (env, managed identity, CLI).
func NewServiceBus(_ context.Context, namespace string) (*azservicebus.Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

// MessageSender is the part of *azservicebus.Sender used for events.
type MessageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// EventSender sends pipeline events to a queue. The sender is opened lazily
// and reused.
type EventSender struct {
	newSender func() (MessageSender, error)

	mu     sync.Mutex
	sender MessageSender
}

func NewEventSender(client *azservicebus.Client, queue string) *EventSender {
	return &EventSender{newSender: func() (MessageSender, error) {
		if client == nil {
			return nil, nil
		}
		return client.NewSender(queue, nil)
	}}
}

// NewEventSenderWith builds an EventSender over an existing sender.
func NewEventSenderWith(sender MessageSender) *EventSender {
	return &EventSender{newSender: func() (MessageSender, error) { return sender, nil }}
}

func (s *EventSender) Emit(ctx context.Context, evt event.Event) {
	if err := s.Send(ctx, evt); err != nil {
		logger.GetLogger().WithField("error", err).WithField("event", evt.Name).Error("Error while sending message.")
	}
}

func (s *EventSender) Send(ctx context.Context, evt event.Event) error {
	sender, err := s.get()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		return err
	}
	if sender == nil {
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	subject := evt.Name
	contentType := "application/json"
	msg := &azservicebus.Message{
		Body:        body,
		Subject:     &subject,
		ContentType: &contentType,
		ApplicationProperties: map[string]interface{}{
			"platform": evt.Platform,
		},
	}
	return sender.SendMessage(ctx, msg, nil)
}

func (s *EventSender) get() (MessageSender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sender != nil {
		return s.sender, nil
	}
	sender, err := s.newSender()
	if err != nil {
		return nil, err
	}
	s.sender = sender
	return sender, nil
}

func (s *EventSender) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sender == nil {
		return nil
	}
	err := s.sender.Close(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while closing sender.")
	}
	s.sender = nil
	return err
}
