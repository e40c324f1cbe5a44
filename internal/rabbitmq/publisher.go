package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"social-client/internal/telemetry"
)

var ErrClosed = errors.New("audit publisher closed")

// Publisher publishes audit envelopes.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// Status says whether audit envelopes reach the broker, and if not, why.
type Status struct {
	Mode   string
	Reason string
}

// NewPublisher connects to the audit exchange. Without a broker it returns a
// publisher that only logs, so session auditing never blocks startup.
func NewPublisher(amqpURL, exchange string) Publisher {
	if amqpURL == "" {
		return logOnly("empty amqp url")
	}

	conn, err := amqp.DialConfig(amqpURL, amqp.Config{
		Heartbeat:  10 * time.Second,
		Properties: amqp.Table{"connection_name": "social-client-audit"},
	})
	if err != nil {
		return logOnly(err.Error())
	}
	ch, err := conn.Channel()
	if err == nil {
		err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
		if err != nil {
			_ = ch.Close()
		}
	}
	if err != nil {
		_ = conn.Close()
		return logOnly(err.Error())
	}

	log.Printf("audit exchange ready exchange=%s", exchange)
	return &brokerPublisher{conn: conn, ch: ch, exchange: exchange}
}

// Describe reports how p delivers envelopes.
func Describe(p Publisher) Status {
	switch pub := p.(type) {
	case *brokerPublisher:
		return Status{Mode: "amqp"}
	case *logPublisher:
		return Status{Mode: "log", Reason: pub.reason}
	default:
		return Status{Mode: "custom"}
	}
}

type brokerPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string

	mu     sync.Mutex
	closed bool
}

func (p *brokerPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        "social-client",
		Timestamp:    time.Now(),
		Body:         body,
	}
	if env, ok := event.(telemetry.AuditEnvelope); ok {
		msg.Type = env.EventType
		msg.CorrelationId = env.RequestID
	}

	// amqp channels are not safe for concurrent publishes
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		log.Printf("audit publish failed routing_key=%s err=%v", routingKey, err)
		return err
	}
	return nil
}

func (p *brokerPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	_ = p.ch.Close()
	return p.conn.Close()
}

type logPublisher struct {
	reason string
}

func logOnly(reason string) *logPublisher {
	log.Printf("audit exchange unavailable, logging only: %s", reason)
	return &logPublisher{reason: reason}
}

func (p *logPublisher) Publish(_ context.Context, routingKey string, event any) error {
	if env, ok := event.(telemetry.AuditEnvelope); ok {
		log.Printf("audit routing_key=%s level=%s text=%q", routingKey, env.Payload.Level, env.Payload.Text)
		return nil
	}
	log.Printf("audit routing_key=%s", routingKey)
	return nil
}

func (p *logPublisher) Close() error { return nil }
