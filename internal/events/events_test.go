package events

import (
	"context"
	"encoding/json"
	"testing"
)

type captureBackend struct {
	channel string
	data    []byte
	attrs   map[string]string
}

func (c *captureBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	c.channel = channel
	c.data = data
	c.attrs = attrs
	return "msg-1", nil
}

func (c *captureBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return nil
}

func (c *captureBackend) Close() error {
	return nil
}

func TestPublisherSerializesEvent(t *testing.T) {
	t.Parallel()

	backend := &captureBackend{}
	publisher := NewPublisher(backend)

	err := publisher.Publish(context.Background(), Event{
		Name:       UserRegistered,
		Subject:    "Luna",
		ResourceID: 7,
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if backend.channel != Channel {
		t.Fatalf("unexpected channel: %q", backend.channel)
	}
	if backend.attrs["event"] != UserRegistered {
		t.Fatalf("unexpected attrs: %v", backend.attrs)
	}

	var event Event
	if err := json.Unmarshal(backend.data, &event); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if event.Subject != "Luna" || event.ResourceID != 7 {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if event.OccurredAt.IsZero() {
		t.Fatal("expected OccurredAt to be stamped")
	}
}

func TestNilBackendIsNoop(t *testing.T) {
	t.Parallel()

	publisher := NewPublisher(nil)
	if err := publisher.Publish(context.Background(), Event{Name: PostCreated}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}
