package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	publishTimeout = 5 * time.Second
	maxBackoff     = 30 * time.Second
	requeueDelay   = 2 * time.Second
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Client publishes and consumes ledger change messages. A circuit breaker
// stops publishing after repeated failures so writes are not slowed down by
// an unreachable broker.
type Client struct {
	url          string
	exchangeName string
	queueName    string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	breaker *breaker
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		breaker:      newBreaker(maxFailures, openTimeout),
	}

	if err := client.connect(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

func setup(channel *amqp091.Channel, exchangeName, queueName string) error {
	err := channel.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name on a direct exchange.
	err = channel.QueueBind(queueName, queueName, exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// ensureChannel reconnects when the channel was lost.
func (c *Client) ensureChannel() (*amqp091.Channel, error) {
	c.mu.Lock()
	ch := c.channel
	c.mu.Unlock()
	if ch != nil && !ch.IsClosed() {
		return ch, nil
	}

	c.closeConnection()
	if err := c.connect(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel, nil
}

// PublishLedgerChanged publishes a ledger change message.
func (c *Client) PublishLedgerChanged(ctx context.Context, entity string, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := NewLedgerChangedMessage(entity, ids).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if !c.breaker.Allow() {
		return fmt.Errorf("publish %s change: %w", entity, ErrCircuitOpen)
	}

	ch, err := c.ensureChannel()
	if err != nil {
		c.breaker.Failure()
		return fmt.Errorf("reconnect: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		c.breaker.Failure()
		return fmt.Errorf("publish message: %w", err)
	}
	c.breaker.Success()

	slog.DebugContext(ctx, "Published ledger change",
		"entity", entity,
		"count", len(ids),
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// ConsumeLedgerChanged delivers messages to handler until ctx is done.
// Connection losses are retried with exponential backoff. Messages that
// fail to decode are dropped; a handler error requeues the message once,
// after requeueDelay.
func (c *Client) ConsumeLedgerChanged(ctx context.Context, handler func(context.Context, *LedgerChangedMessage) error) error {
	attempt := 0
	for {
		err := c.consumeOnce(ctx, handler, func() { attempt = 0 })
		if ctx.Err() != nil {
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) {
			return err
		}

		wait := exponentialBackoff(attempt)
		attempt++
		slog.WarnContext(ctx, "AMQP consumer disconnected, retrying", "error", err, "attempt", attempt, "backoff", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) consumeOnce(ctx context.Context, handler func(context.Context, *LedgerChangedMessage) error, connected func()) error {
	ch, err := c.ensureChannel()
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}
	connected()

	slog.InfoContext(ctx, "Started consuming ledger change messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}

			switch dispatch(ctx, delivery.Body, delivery.Redelivered, handler) {
			case outcomeDrop:
				_ = delivery.Nack(false, false)
			case outcomeRequeue:
				select {
				case <-ctx.Done():
				case <-time.After(requeueDelay):
				}
				_ = delivery.Nack(false, true)
			default:
				_ = delivery.Ack(false)
			}
		}
	}
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRequeue
)

// dispatch decodes one delivery and runs handler on it. Undecodable bodies
// are dropped. A failed message is requeued once; if it fails again on
// redelivery it is dropped and the next change or export tick catches up.
func dispatch(ctx context.Context, body []byte, redelivered bool, handler func(context.Context, *LedgerChangedMessage) error) outcome {
	msg, err := LedgerChangedMessageFromJSON(body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
		return outcomeDrop
	}
	if err := handler(ctx, msg); err != nil {
		if redelivered {
			slog.ErrorContext(ctx, "Dropping message after failed redelivery", "error", err, "entity", msg.Entity)
			return outcomeDrop
		}
		slog.ErrorContext(ctx, "Failed to handle message, requeueing", "error", err, "entity", msg.Entity)
		return outcomeRequeue
	}
	slog.DebugContext(ctx, "Processed ledger change message", "entity", msg.Entity, "count", len(msg.IDs))
	return outcomeAck
}

// exponentialBackoff returns 1s, 2s, 4s... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "channel closed", "dial"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) closeConnection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) Close() error {
	c.closeConnection()
	return nil
}
