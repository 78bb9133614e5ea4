package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/andrescamacho/mediator-go/internal/domain/order"
)

const defaultSubjectPrefix = "mediator"

// Conn is the part of *nats.Conn the publisher needs
type Conn interface {
	Publish(subject string, data []byte) error
}

// EventPublisher implements order.EventPublisher over NATS
type EventPublisher struct {
	conn          Conn
	subjectPrefix string
	now           func() time.Time
}

// NewEventPublisher creates a publisher that sends each event to
// "<prefix>.<event type>"
func NewEventPublisher(conn Conn, subjectPrefix string) *EventPublisher {
	if subjectPrefix == "" {
		subjectPrefix = defaultSubjectPrefix
	}
	return &EventPublisher{conn: conn, subjectPrefix: subjectPrefix, now: time.Now}
}

func (p *EventPublisher) Publish(ctx context.Context, evt order.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Envelope{
		EventID:     uuid.NewString(),
		EventType:   evt.EventType(),
		AggregateID: evt.AggregateID(),
		PublishedAt: p.now().UTC(),
		Payload:     evt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(p.Subject(evt), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subject returns the NATS subject for evt
func (p *EventPublisher) Subject(evt order.Event) string {
	return p.subjectPrefix + "." + evt.EventType()
}

// Envelope wraps an event with metadata for transport
type Envelope struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID int       `json:"aggregate_id"`
	PublishedAt time.Time `json:"published_at"`
	Payload     any       `json:"payload"`
}

// NopPublisher drops every event. Used when messaging is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, order.Event) error { return nil }

// Connect dials NATS with reconnect handling
func Connect(url string, opts ...nats.Option) (*nats.Conn, error) {
	opts = append([]nats.Option{
		nats.Name("mediator-daemon"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
	}, opts...)

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return conn, nil
}
