package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/ProjectUnravel/StudentManagementAPI/internal/models"
)

// EventPublisher announces domain events. Callers log publish failures
// and carry on.
type EventPublisher interface {
	PublishAttendanceClockedIn(ctx context.Context, event *models.AttendanceClockedInEvent) error
	PublishAttendanceClockedOut(ctx context.Context, event *models.AttendanceClockedOutEvent) error
	PublishTaskScoreRecorded(ctx context.Context, event *models.TaskScoreRecordedEvent) error
	Close() error
}

// publishChannel is the part of *amqp091.Channel the client needs.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type rabbitMQClient struct {
	conn     *amqp091.Connection
	channel  publishChannel
	exchange string
	logger   zerolog.Logger
}

// NewRabbitMQClient declares a durable topic exchange; the event name is
// used as the routing key.
func NewRabbitMQClient(url, exchange string, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info().
		Str("exchange", exchange).
		Msg("Connected to RabbitMQ")

	return &rabbitMQClient{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (c *rabbitMQClient) PublishAttendanceClockedIn(ctx context.Context, event *models.AttendanceClockedInEvent) error {
	return c.publish(ctx, models.EventAttendanceClockedIn, event)
}

func (c *rabbitMQClient) PublishAttendanceClockedOut(ctx context.Context, event *models.AttendanceClockedOutEvent) error {
	return c.publish(ctx, models.EventAttendanceClockedOut, event)
}

func (c *rabbitMQClient) PublishTaskScoreRecorded(ctx context.Context, event *models.TaskScoreRecordedEvent) error {
	return c.publish(ctx, models.EventTaskScoreRecorded, event)
}

func (c *rabbitMQClient) publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Type:         routingKey,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.logger.Debug().
		Str("event", routingKey).
		Int("bytes", len(body)).
		Msg("Event published")

	return nil
}

func (c *rabbitMQClient) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}

type noopPublisher struct {
	logger zerolog.Logger
}

// NewNoopPublisher is used when RabbitMQ is disabled or unreachable.
func NewNoopPublisher(logger zerolog.Logger) EventPublisher {
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) PublishAttendanceClockedIn(ctx context.Context, event *models.AttendanceClockedInEvent) error {
	p.logger.Debug().Str("event", models.EventAttendanceClockedIn).Msg("Event publishing disabled")
	return nil
}

func (p *noopPublisher) PublishAttendanceClockedOut(ctx context.Context, event *models.AttendanceClockedOutEvent) error {
	p.logger.Debug().Str("event", models.EventAttendanceClockedOut).Msg("Event publishing disabled")
	return nil
}

func (p *noopPublisher) PublishTaskScoreRecorded(ctx context.Context, event *models.TaskScoreRecordedEvent) error {
	p.logger.Debug().Str("event", models.EventTaskScoreRecorded).Msg("Event publishing disabled")
	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}
