package rabbitmq

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Queue names used by the marketplace.
const (
	PaymentCompletedQueue       = "payment_completed"
	NotificationDeadLetterQueue = "notification_dead_letter"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
	mu      sync.Mutex // serializes publishes on the shared channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL    string
	Queues []string
	Logger *zap.Logger
}

// NewClient connects to RabbitMQ, opens a channel and declares cfg.Queues as durable.
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

	for _, q := range cfg.Queues {
		if _, err := declare(ch, q); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare %s: %w", q, err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("RabbitMQ client connected", zap.Strings("queues", cfg.Queues))

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Close closes the RabbitMQ connection and channel.
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
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to queue through the default exchange.
func (c *Client) Publish(queue string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		"",    // default exchange
		queue, // routing key: the queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", queue, err)
	}
	return nil
}

// Consume processes messages from queue on a background goroutine. A nil
// handler result acks the message; an error nacks it for redelivery.
func (c *Client) Consume(queue string, handler func(body []byte) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	q, err := declare(c.channel, queue)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		q.Name,
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

	c.logger.Info("waiting for messages", zap.String("queue", q.Name))

	go func() {
		for msg := range msgs {
			if err := handler(msg.Body); err != nil {
				c.logger.Error("error processing message",
					zap.String("queue", q.Name), zap.Uint64("tag", msg.DeliveryTag), zap.Error(err))
				// Requeue once; a message failing on redelivery is dropped.
				if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
					c.logger.Error("error nacking message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.logger.Error("error acking message", zap.Uint64("tag", msg.DeliveryTag), zap.Error(ackErr))
			}
		}
	}()

	return nil
}
