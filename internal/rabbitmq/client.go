package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/messaging/payloads"
)

const publishTimeout = 5 * time.Second

// requeueDelay - пауза перед возвратом сообщения в очередь после ошибки обработки
const requeueDelay = 5 * time.Second

// Client представляет собой клиент RabbitMQ
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient подключается к RabbitMQ и объявляет очередь событий
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open RabbitMQ channel: %w", err)
	}

	// идемпотентно: существующая очередь не пересоздаётся
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", cfg.RabbitMQ.RabbitMQQueueName, err)
	}

	logger.Info("connected to RabbitMQ", "queue", q.Name, "messages", q.Messages)
	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() error {
	var firstErr error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("failed to close RabbitMQ channel", "error", err)
			firstErr = err
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("failed to close RabbitMQ connection", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	c.logger.Info("RabbitMQ connection closed")
	return firstErr
}

// PublishExerciseLogged публикует событие exercise.logged в очередь.
// Реализует ports.ExerciseEventPublisher
func (c *Client) PublishExerciseLogged(ctx context.Context, payload payloads.ExerciseLoggedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", payloads.ExerciseLoggedEvent, err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         payloads.ExerciseLoggedEvent,
			Timestamp:    payload.LoggedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", payloads.ExerciseLoggedEvent, err)
	}

	c.logger.Debug("event published", "queue", c.queue.Name, "exercise_id", payload.ExerciseID)
	return nil
}

// StartConsumingExerciseLogged регистрирует потребителя и обрабатывает сообщения в горутине,
// пока не отменён ctx. Реализует ports.ExerciseEventConsumer
func (c *Client) StartConsumingExerciseLogged(ctx context.Context, handler func(context.Context, payloads.ExerciseLoggedPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	c.logger.Info("consumer registered, waiting for messages", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("RabbitMQ delivery channel closed, stopping consumer")
					return
				}
				c.handleDelivery(ctx, msg, handler)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}

// acknowledger - подмножество amqp.Delivery, нужное для подтверждения
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.ExerciseLoggedPayload) error) {
	processDelivery(ctx, c.logger, msg.Body, msg, requeueDelay, handler)
}

// processDelivery декодирует сообщение и подтверждает его.
// Битое сообщение отбрасывается без повтора. При ошибке обработки сообщение
// возвращается в очередь через retryDelay или сразу при отмене ctx
func processDelivery(ctx context.Context, logger *slog.Logger, body []byte, ack acknowledger, retryDelay time.Duration, handler func(context.Context, payloads.ExerciseLoggedPayload) error) {
	var payload payloads.ExerciseLoggedPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.Error("failed to unmarshal message", "error", err, "body", string(body))
		if err := ack.Nack(false, false); err != nil {
			logger.Error("failed to nack malformed message", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		logger.Error("failed to process message", "error", err,
			"exercise_id", payload.ExerciseID, "retry_in", retryDelay.String())
		waitRetry(ctx, retryDelay)
		if err := ack.Nack(false, true); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := ack.Ack(false); err != nil {
		logger.Error("failed to ack message", "error", err)
		return
	}
	logger.Debug("message processed", "exercise_id", payload.ExerciseID)
}

func waitRetry(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
