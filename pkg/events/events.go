// Package events publishes domain events to RabbitMQ. The API keeps
// working without a broker: a nil *Client is a no-op publisher, so the
// HTTP layer never depends on messaging being up.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// Queue names.
const (
	OrderQueue         = "order_events"
	PasswordResetQueue = "password_reset_events"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the
// durable queues this service publishes to.
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

	for _, queue := range []string{OrderQueue, PasswordResetQueue} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
		}
	}

	log.Println("RabbitMQ client connected, event queues declared")
	return &Client{conn: conn, channel: ch}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
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
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// publish marshals payload to JSON and sends it to the given queue as a
// persistent message. A nil client drops the event silently.
func (c *Client) publish(queue string, payload interface{}) error {
	if c == nil || c.channel == nil {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	err = c.channel.Publish("", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}
	return nil
}

// PublishOrderCreated announces a newly persisted order.
func (c *Client) PublishOrderCreated(orderID, userID string, total float64) error {
	return c.publish(OrderQueue, map[string]interface{}{
		"event":   "order.created",
		"orderID": orderID,
		"userID":  userID,
		"total":   total,
	})
}

// PublishPasswordResetRequested announces that a reset code was issued
// for the given email. The code itself stays out of the event.
func (c *Client) PublishPasswordResetRequested(email string, expiresAt time.Time) error {
	return c.publish(PasswordResetQueue, map[string]interface{}{
		"event":     "password.reset.requested",
		"email":     email,
		"expiresAt": expiresAt.Format(time.RFC3339),
	})
}

// Consume starts a goroutine delivering messages from queue to handler.
// Messages are acked on success and nacked back onto the queue on error.
func (c *Client) Consume(queue string, handler func(msg amqp.Delivery) error) error {
	if c == nil || c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queue, err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg); err != nil {
				log.Printf("Error processing message %d from %s: %v", msg.DeliveryTag, queue, err)
				if nackErr := msg.Nack(false, true); nackErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
