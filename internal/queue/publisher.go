package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNoBroker is returned by NewPublisher when no broker URL is configured.
var ErrNoBroker = errors.New("queue: broker url is empty")

// Publisher sends PhotoReleasedEvent messages to a durable queue.
// A connection is opened per message; release traffic is low.
type Publisher struct {
	url   string
	queue string
	now   func() time.Time
}

// NewPublisher returns a publisher for the given broker and queue name.
func NewPublisher(url, queue string) (*Publisher, error) {
	if url == "" {
		return nil, ErrNoBroker
	}
	if queue == "" {
		return nil, errors.New("queue: queue name is empty")
	}
	return &Publisher{url: url, queue: queue, now: time.Now}, nil
}

// Release publishes a persistent photo.released message.
func (p *Publisher) Release(ctx context.Context, kind, ref string) error {
	body, err := json.Marshal(PhotoReleasedEvent{
		Kind:       kind,
		Ref:        ref,
		ReleasedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
