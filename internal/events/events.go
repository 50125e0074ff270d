package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event names published by the services.
const (
	UserRegistered  = "user.registered"
	UserDeactivated = "user.deactivated"
	TokenRevoked    = "token.revoked"
	PostCreated     = "post.created"
	PostDeleted     = "post.deleted"
)

// Channel is the broker channel all lifecycle events go to.
const Channel = "postboard.events"

// Event is a lifecycle notification about an account or a post.
type Event struct {
	Name       string    `json:"name"`
	Subject    string    `json:"subject"`
	ResourceID int       `json:"resource_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Publisher serializes lifecycle events onto a backend.
type Publisher struct {
	backend Backend
}

// NewPublisher wraps a backend. A nil backend yields a no-op publisher so
// callers never have to branch on broker availability.
func NewPublisher(backend Backend) *Publisher {
	if backend == nil {
		backend = NoopBackend{}
	}
	return &Publisher{backend: backend}
}

// Publish sends one event. The returned error is advisory; callers log it
// and move on, a lost event never fails the request that produced it.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.backend.Publish(ctx, Channel, data, map[string]string{"event": event.Name})
	return err
}

// Subscribe consumes lifecycle events from the backend.
func (p *Publisher) Subscribe(ctx context.Context, handler Handler) error {
	return p.backend.Subscribe(ctx, Channel, handler)
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}

// NoopBackend drops every event. Used when no broker is configured.
type NoopBackend struct{}

func (NoopBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return "", nil
}

func (NoopBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return nil
}

func (NoopBackend) Close() error {
	return nil
}
