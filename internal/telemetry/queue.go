package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chrisostomemataba/Kemomovies/internal/config"
	"github.com/chrisostomemataba/Kemomovies/internal/metrics"
	"github.com/chrisostomemataba/Kemomovies/pkg/models"
)

const (
	AnalyticsQueueName = "player_analytics"
	ExchangeName       = "kemomovies"
)

// Queue carries end-of-session analytics reports from the API to the
// persistence worker. Publishing is best effort by contract: callers log
// and discard failures so telemetry can never affect playback.
type Queue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// New creates a new telemetry queue client
func New(cfg config.QueueConfig) (*Queue, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Vhost)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare exchange
	err = channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Declare queue
	_, err = channel.QueueDeclare(
		AnalyticsQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	// Bind queue to exchange
	err = channel.QueueBind(
		AnalyticsQueueName,
		AnalyticsQueueName,
		ExchangeName,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &Queue{
		conn:    conn,
		channel: channel,
	}, nil
}

// Close closes the queue connection
func (q *Queue) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// PublishReport publishes an end-of-session analytics report
func (q *Queue) PublishReport(ctx context.Context, report *models.PlayerAnalytics) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal analytics report: %w", err)
	}

	err = q.channel.PublishWithContext(ctx,
		ExchangeName,
		AnalyticsQueueName,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish analytics report: %w", err)
	}

	metrics.AnalyticsReportsPublished.Inc()
	return nil
}

// ConsumeReports starts consuming analytics reports from the queue
func (q *Queue) ConsumeReports(ctx context.Context, handler func(*models.PlayerAnalytics) error) error {
	// Set QoS to limit concurrent processing
	err := q.channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := q.channel.Consume(
		AnalyticsQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var report models.PlayerAnalytics
				if err := json.Unmarshal(msg.Body, &report); err != nil {
					// Malformed report: drop, never requeue
					msg.Nack(false, false)
					continue
				}

				if err := handler(&report); err != nil {
					msg.Nack(false, true)
				} else {
					msg.Ack(false)
				}
			}
		}
	}()

	return nil
}

// GetQueueDepth returns the number of pending reports
func (q *Queue) GetQueueDepth() (int, error) {
	info, err := q.channel.QueueInspect(AnalyticsQueueName)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return info.Messages, nil
}
