// Package events announces order and dialog lifecycle changes to other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	OrderDeleted       = "order.deleted"
	DialogCreated      = "dialog.created"
	DialogMessage      = "dialog.message_appended"
	DialogClosed       = "dialog.closed"
)

type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	OrderID  int       `json:"order_id,omitempty"`
	DialogID int       `json:"dialog_id,omitempty"`
	Username string    `json:"username,omitempty"`
	Status   string    `json:"status,omitempty"`
	Total    float64   `json:"total,omitempty"`
	Occurred time.Time `json:"occurred"`
}

// New stamps an event of the given type with a fresh id and the current time.
func New(eventType string) Event {
	return Event{ID: uuid.NewString(), Type: eventType, Occurred: time.Now()}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// AMQP publishes events as JSON to a topic exchange, routed by event type.
type AMQP struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

func NewAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQP{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQP) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		p.exchange,
		ev.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    ev.ID,
			Timestamp:    ev.Occurred,
			Body:         body,
		},
	)
}

func (p *AMQP) Close() error {
	if err := p.ch.Close(); err != nil {
		slog.Warn("Failed to close broker channel", "error", err)
	}
	return p.conn.Close()
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the type of each recorded event in publish order.
func (r *Recorder) Types() []string {
	var types []string
	for _, ev := range r.Events() {
		types = append(types, ev.Type)
	}
	return types
}
