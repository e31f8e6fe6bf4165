package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends booking events.  Failures are reported but must never
// fail the request that caused the event.
type Publisher interface {
	PublishBooking(ctx context.Context, ev BookingEvent) error
}

// NewPublisher returns an AMQPPublisher for url, or a NopPublisher when
// url is empty.
func NewPublisher(url string, logger *log.Logger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return &AMQPPublisher{URL: url, Queue: QueueName, Logger: logger}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishBooking(context.Context, BookingEvent) error { return nil }

// AMQPPublisher opens a short-lived connection per event and publishes a
// persistent JSON message through the default exchange.
type AMQPPublisher struct {
	URL    string
	Queue  string
	Logger *log.Logger
}

func (p *AMQPPublisher) PublishBooking(ctx context.Context, ev BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return p.fail("marshal event", err)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return p.fail("dial", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return p.fail("channel open", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		return p.fail("queue declare", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	})
	if err != nil {
		return p.fail("publish", err)
	}
	return nil
}

func (p *AMQPPublisher) fail(step string, err error) error {
	if p.Logger != nil {
		p.Logger.Warnj(log.JSON{"component": "publisher", "step": step, "error": err.Error()})
	}
	return err
}
