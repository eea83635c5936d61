// Package rabbitmq publishes shop domain events to a topic exchange and
// consumes them for fulfillment.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	amqp "github.com/streadway/amqp"
)

const (
	// Exchange is the topic exchange every shop event is published to.
	Exchange = "shop.events"
	// FulfillmentQueue receives order and payment events.
	FulfillmentQueue = "fulfillment_queue"
)

var fulfillmentBindings = []string{"order.*", "payment.*"}

// Message is the JSON envelope of every published event. The routing key
// equals Type.
type Message struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // serializes publishes on the shared channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the exchange, the
// fulfillment queue and its bindings.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info().Str("exchange", Exchange).Str("queue", FulfillmentQueue).Msg("RabbitMQ client connected")

	return &Client{conn: conn, channel: ch}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", Exchange, err)
	}

	if _, err := ch.QueueDeclare(
		FulfillmentQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare %s: %w", FulfillmentQueue, err)
	}

	for _, key := range fulfillmentBindings {
		if err := ch.QueueBind(FulfillmentQueue, key, Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", FulfillmentQueue, key, err)
		}
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends data wrapped in a Message to the exchange with eventType as
// the routing key. Messages are persistent.
func (c *Client) Publish(ctx context.Context, eventType string, data any) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := Encode(eventType, data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		Exchange,
		eventType,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         eventType,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	log.Debug().Str("event", eventType).Msg("event published")
	return nil
}

// Encode builds the JSON envelope for an event.
func Encode(eventType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	body, err := json.Marshal(Message{Type: eventType, OccurredAt: time.Now().UTC(), Data: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s envelope: %w", eventType, err)
	}
	return body, nil
}

// Handler processes one decoded message.
type Handler func(ctx context.Context, msg Message) error

// Consume starts a goroutine that feeds FulfillmentQueue deliveries to
// handler until ctx is cancelled or the channel closes.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		FulfillmentQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Info().Str("queue", FulfillmentQueue).Msg("waiting for shop events")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				Dispatch(ctx, d, handler)
			}
		}
	}()
	return nil
}

// Dispatch decodes d, runs handler and acknowledges the delivery.
// Undecodable messages are dropped. A failing handler gets one redelivery
// before the message is dropped.
func Dispatch(ctx context.Context, d amqp.Delivery, handler Handler) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Error().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("dropping undecodable message")
		if err := d.Nack(false, false); err != nil {
			log.Error().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("nack failed")
		}
		return
	}

	if err := handler(ctx, msg); err != nil {
		requeue := !d.Redelivered
		log.Error().Err(err).Str("event", msg.Type).Bool("requeue", requeue).Msg("error processing message")
		if err := d.Nack(false, requeue); err != nil {
			log.Error().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("nack failed")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		log.Error().Err(err).Uint64("delivery_tag", d.DeliveryTag).Msg("ack failed")
	}
}

// HandleFulfillmentMessage logs the fulfillment step each event triggers.
func HandleFulfillmentMessage(_ context.Context, msg Message) error {
	var fields map[string]any
	if err := json.Unmarshal(msg.Data, &fields); err != nil {
		return fmt.Errorf("decode %s data: %w", msg.Type, err)
	}

	evt := log.Info().Str("event", msg.Type).Time("occurred_at", msg.OccurredAt)
	for _, key := range []string{"order_id", "payment_id", "user_id"} {
		if v, ok := fields[key].(string); ok {
			evt = evt.Str(key, v)
		}
	}
	switch msg.Type {
	case "order.created":
		evt.Msg("order awaiting payment")
	case "payment.completed":
		evt.Msg("payment captured, order ready for fulfillment")
	case "payment.failed":
		evt.Msg("payment failed, order stays pending")
	default:
		evt.Msg("unhandled shop event")
	}
	return nil
}
