package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"
)

// AMQPPublisher publishes updates to the session_updates topic exchange with
// routing key "session.<id>".
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewAMQPPublisher declares the update exchange on conn.
func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		UpdateExchange, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-delete
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		return nil, fmt.Errorf("declaring exchange %s: %w", UpdateExchange, err)
	}
	return &AMQPPublisher{conn: conn, exchange: UpdateExchange}, nil
}

// RoutingKey returns the routing key for a session's updates.
func RoutingKey(sessionID string) string {
	return fmt.Sprintf("session.%s", sessionID)
}

// Publish sends one update on a short-lived channel.
func (p *AMQPPublisher) Publish(_ context.Context, sessionID string, update Update) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encoding update: %w", err)
	}

	return ch.Publish(
		p.exchange,
		RoutingKey(sessionID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Consume declares the request queue on conn and serves deliveries until ctx is
// done or the channel closes. concurrency bounds the number of requests handled at
// once across all sessions.
func (w *Worker) Consume(ctx context.Context, conn *amqp.Connection, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		RequestQueue, // queue name
		true,         // durable (survives broker restarts)
		false,        // auto-delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.Qos(concurrency, 0, false); err != nil {
		return fmt.Errorf("setting prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		RequestQueue, // queue name
		"",           // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq message: %w", err)
	}

	log.Printf("[Worker] Consuming %s with %d handlers", RequestQueue, concurrency)
	return w.Serve(ctx, msgs, concurrency)
}

// Serve handles deliveries with up to concurrency handlers. Every delivery is
// acked once handled, including failed and rejected requests, since retrying them
// would replay a stale tailoring. Serve returns when ctx is done or msgs closes,
// after in-flight handlers finish.
func (w *Worker) Serve(ctx context.Context, msgs <-chan amqp.Delivery, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				_ = msg.Nack(false, true)
				return ctx.Err()
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				if err := w.Handle(ctx, d.Body); err != nil && !errors.Is(err, ErrSessionBusy) {
					log.Printf("[Worker] error handling delivery %d: %v", d.DeliveryTag, err)
				}
				if err := d.Ack(false); err != nil {
					log.Printf("[Worker] failed to ack delivery %d: %v", d.DeliveryTag, err)
				}
			}(msg)
		}
	}
}
