// Package pubsub publishes order lifecycle events to Google Cloud Pub/Sub.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/izzah/storefront/pkg/config"
	"github.com/izzah/storefront/pkg/logger"
)

var (
	errProjectIDRequired = errors.New("gcp project id is required")
	errNoTopic           = errors.New("pubsub orders topic is required")
	errNotInitialized    = errors.New("pubsub client not initialized")
)

// Client owns the Pub/Sub connection and the orders topic publisher.
type Client struct {
	client *gcppubsub.Client
	topic  string
	orders *gcppubsub.Publisher
	cfg    config.PubSubConfig
}

// NewClient connects to Pub/Sub and checks the orders topic. With
// CreateTopic set, a missing topic is created instead of failing boot.
// PUBSUB_EMULATOR_HOST is honoured by the underlying client.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	projectID := strings.TrimSpace(gcp.ProjectID)
	if projectID == "" {
		return nil, errProjectIDRequired
	}
	topic := topicResourceName(projectID, cfg.OrdersTopic)
	if topic == "" {
		return nil, errNoTopic
	}

	psClient, err := gcppubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}
	c := &Client{client: psClient, topic: topic, cfg: cfg}

	if err := c.checkTopic(ctx); err != nil {
		if !cfg.CreateTopic || status.Code(errors.Unwrap(err)) != codes.NotFound {
			_ = psClient.Close()
			return nil, err
		}
		if _, err := psClient.TopicAdminClient.CreateTopic(ctx, &pubsubpb.Topic{Name: topic}); err != nil && status.Code(err) != codes.AlreadyExists {
			_ = psClient.Close()
			return nil, fmt.Errorf("creating topic %s: %w", topic, err)
		}
		logg.Warn(logg.WithField(ctx, "topic", topic), "created missing orders topic")
	}

	c.orders = psClient.Publisher(topic)
	logg.Info(logg.WithField(ctx, "topic", topic), "pubsub client initialized")
	return c, nil
}

func (c *Client) checkTopic(ctx context.Context) error {
	_, err := c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: c.topic})
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("topic %s does not exist: %w", c.topic, err)
	}
	return fmt.Errorf("checking topic %s: %w", c.topic, err)
}

// OrdersPublisher returns the publisher bound to the orders topic.
func (c *Client) OrdersPublisher() *gcppubsub.Publisher {
	if c == nil {
		return nil
	}
	return c.orders
}

// Ping is the readiness probe: the orders topic must still exist.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errNotInitialized
	}
	return c.checkTopic(ctx)
}

// Close flushes pending publishes before closing the connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.orders != nil {
		c.orders.Stop()
	}
	return c.client.Close()
}

// topicResourceName accepts a bare topic ID or a full resource name.
func topicResourceName(projectID, name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	p := strings.TrimSpace(projectID)
	if p == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", p, n)
}
