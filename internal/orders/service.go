package orders

import (
	"context"
	"fmt"

	"github.com/izzah/storefront/pkg/logger"
)

type writer interface {
	Create(ctx context.Context, order *Order) error
}

// EventPublisher delivers order-placed events.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
}

// Service writes orders and announces them.
type Service interface {
	Place(ctx context.Context, order *Order) error
}

type service struct {
	repo      writer
	publisher EventPublisher
	logg      *logger.Logger
}

// NewService builds the order service. publisher may be nil.
func NewService(repo writer, publisher EventPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, publisher: publisher, logg: logg}, nil
}

// Place performs a single write. Publishing is best-effort and never fails
// an order that was stored.
func (s *service) Place(ctx context.Context, order *Order) error {
	if err := s.repo.Create(ctx, order); err != nil {
		return err
	}
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishOrderPlaced(ctx, NewOrderPlacedEvent(order)); err != nil {
		s.logg.Warn(s.logg.WithOrderID(ctx, order.OrderID), fmt.Sprintf("order placed event not published: %v", err))
	}
	return nil
}
