package orders

import (
	"context"
	"errors"
	"testing"
)

type stubWriter struct {
	err     error
	written []*Order
}

func (s *stubWriter) Create(_ context.Context, order *Order) error {
	if s.err != nil {
		return s.err
	}
	s.written = append(s.written, order)
	return nil
}

type stubPublisher struct {
	err    error
	events []OrderPlacedEvent
}

func (s *stubPublisher) PublishOrderPlaced(_ context.Context, event OrderPlacedEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func TestPlacePublishesAfterWrite(t *testing.T) {
	t.Parallel()

	repo := &stubWriter{}
	pub := &stubPublisher{}
	svc, err := NewService(repo, pub, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	order := sampleOrder("BUYNOW_5_ok")
	order.Items[0].Quantity = 3
	if err := svc.Place(context.Background(), order); err != nil {
		t.Fatalf("place: %v", err)
	}
	if len(repo.written) != 1 {
		t.Fatalf("expected one write, got %d", len(repo.written))
	}
	if len(pub.events) != 1 || pub.events[0].ItemCount != 3 || pub.events[0].City != "Lahore" {
		t.Fatalf("unexpected events %+v", pub.events)
	}
}

func TestPlaceIgnoresPublishFailure(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubWriter{}, &stubPublisher{err: errors.New("pubsub down")}, nil)
	if err := svc.Place(context.Background(), sampleOrder("BUYNOW_6_pub")); err != nil {
		t.Fatalf("publish failure must not fail the order: %v", err)
	}
}

func TestPlaceWriteFailureSkipsPublish(t *testing.T) {
	t.Parallel()

	pub := &stubPublisher{}
	writeErr := &WriteError{Kind: WriteErrorPayloadTooLarge}
	svc, _ := NewService(&stubWriter{err: writeErr}, pub, nil)

	err := svc.Place(context.Background(), sampleOrder("BUYNOW_7_fail"))
	if KindOf(err) != WriteErrorPayloadTooLarge {
		t.Fatalf("expected payload too large, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("no event expected for failed write")
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	t.Parallel()
	if _, err := NewService(nil, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}
