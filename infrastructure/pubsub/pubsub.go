package pubsub

import (
	"context"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/goccy/go-json"

	"imospy/domain/event"
	"imospy/infrastructure/logger"
)

// NewPubSub creates a Google Cloud Pub/Sub client for the project.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	return pubsub.NewClient(ctx, projectID)
}

// EventPublisher publishes pipeline events as JSON messages on one topic.
// The topic is created on first use when it does not exist.
type EventPublisher struct {
	client  *pubsub.Client
	topicID string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewEventPublisher(client *pubsub.Client, topicID string) *EventPublisher {
	return &EventPublisher{client: client, topicID: topicID}
}

func (p *EventPublisher) Emit(ctx context.Context, evt event.Event) {
	if _, err := p.Publish(ctx, evt); err != nil {
		logger.GetLogger().WithField("error", err).WithField("event", evt.Name).Error("Error while publishing event")
	}
}

// Publish sends the event and waits for the server id.
func (p *EventPublisher) Publish(ctx context.Context, evt event.Event) (string, error) {
	if p.client == nil {
		return "", nil
	}
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", err
	}
	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"name":     evt.Name,
			"platform": evt.Platform,
		},
	}
	serverID, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return "", err
	}
	logger.GetLogger().WithField("server ID", serverID).WithField("event", evt.Name).Debug("Message published")
	return serverID, nil
}

func (p *EventPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}
	topic := p.client.Topic(p.topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicID).Info("Topic doesn't exist - creating it")
		if topic, err = p.client.CreateTopic(ctx, p.topicID); err != nil {
			return nil, err
		}
	}
	p.topic = topic
	return topic, nil
}

// Stop flushes pending messages.
func (p *EventPublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
	}
}
