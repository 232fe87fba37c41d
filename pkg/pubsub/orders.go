package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/izzah/storefront/internal/orders"
)

const (
	envelopeVersion       = 1
	defaultPublishTimeout = 10 * time.Second
)

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// Envelope wraps every published payload.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// OrderEventPublisher publishes order lifecycle events to one topic.
type OrderEventPublisher struct {
	pub     publisher
	timeout time.Duration
	now     func() time.Time
}

var _ orders.EventPublisher = (*OrderEventPublisher)(nil)

// NewOrderEventPublisher wraps the client's orders topic.
func NewOrderEventPublisher(c *Client) (*OrderEventPublisher, error) {
	p := c.OrdersPublisher()
	if p == nil {
		return nil, errors.New("orders publisher unavailable")
	}
	pub := newOrderEventPublisher(&gcpPublisher{Publisher: p})
	if c.cfg.PublishTimeout > 0 {
		pub.timeout = c.cfg.PublishTimeout
	}
	return pub, nil
}

func newOrderEventPublisher(pub publisher) *OrderEventPublisher {
	return &OrderEventPublisher{pub: pub, timeout: defaultPublishTimeout, now: time.Now}
}

// PublishOrderPlaced sends the event and waits for the server ack.
func (p *OrderEventPublisher) PublishOrderPlaced(ctx context.Context, event orders.OrderPlacedEvent) error {
	if p == nil || p.pub == nil {
		return errors.New("order publisher not initialized")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	now := p.now().UTC()
	eventID := uuid.NewString()
	payload, err := json.Marshal(Envelope{
		Version:    envelopeVersion,
		EventID:    eventID,
		OccurredAt: now,
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":     eventID,
			"event_type":   orders.EventTypeOrderPlaced,
			"aggregate_id": event.OrderID,
			"created_at":   now.Format(time.RFC3339Nano),
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result := p.pub.Publish(ctx, msg)
	if result == nil {
		return errors.New("publish returned no result")
	}
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
