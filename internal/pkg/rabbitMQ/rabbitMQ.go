// Package rabbitMQ publishes edit outcome events to a durable RabbitMQ queue.
package rabbitMQ

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrClosed = errors.New("rabbitmq publisher is closed")

type Config struct {
	URL       string
	QueueName string
}

// Publisher owns one connection and one channel bound to the events queue.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewPublisher(cfg Config) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	p := &Publisher{conn: conn, queue: cfg.QueueName}
	if err := p.open(); err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// open creates the channel and declares the events queue.
func (p *Publisher) open() error {
	channel, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(p.queue, true, false, false, false, amqp.Table{
		"x-queue-mode": "lazy",
	})
	if err != nil {
		channel.Close()
		return fmt.Errorf("failed to declare queue %s: %w", p.queue, err)
	}

	p.channel = channel
	return nil
}

// Publish sends event as persistent JSON. key is the session id and becomes
// the correlation id so consumers can group a session's edits.
func (p *Publisher) Publish(ctx context.Context, key string, event interface{}) error {
	if err := p.Ping(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal edit event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: key,
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now(),
		Body:          body,
	}
	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish edit event: %w", err)
	}
	return nil
}

// Ping reports whether the connection and channel are still usable.
func (p *Publisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() || p.channel == nil || p.channel.IsClosed() {
		return ErrClosed
	}
	return nil
}

func (p *Publisher) Close() error {
	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
