package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = Noop{}
)

// Publisher sends reservation events to RabbitMQ. Each publish opens its
// own connection, so a broker outage never leaves a broken channel behind.
type Publisher struct {
	url string
	log logrus.FieldLogger
	now func() time.Time
}

func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
	return &Publisher{url: url, log: log, now: time.Now}
}

func (p *Publisher) ReservationCreated(ctx context.Context, r model.Reservation, roomNumber string) error {
	return p.publish(ctx, newReservationEvent(EventReservationCreated, r, roomNumber, p.now()))
}

func (p *Publisher) ReservationFinalized(ctx context.Context, r model.Reservation, roomNumber string) error {
	return p.publish(ctx, newReservationEvent(EventReservationFinalized, r, roomNumber, p.now()))
}

func (p *Publisher) publish(ctx context.Context, ev ReservationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(ReservationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = ch.PublishWithContext(ctx, "", ReservationQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         ev.Type,
		Timestamp:    p.now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	p.log.WithFields(logrus.Fields{"type": ev.Type, "reservation_id": ev.ReservationID}).Debug("event published")
	return nil
}

// Noop drops every event. It stands in when no broker is configured.
type Noop struct{}

func (Noop) ReservationCreated(context.Context, model.Reservation, string) error   { return nil }
func (Noop) ReservationFinalized(context.Context, model.Reservation, string) error { return nil }
