// Package notify fans out dispatch-assignment messages over AMQP so
// connected driver and technician apps learn about new form assignments
// without polling. Delivery is best effort; a broker outage never gates a
// dispatch.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
)

// Config holds the AMQP connection and exchange settings.
type Config struct {
	URL          string
	Exchange     string
	ExchangeType string
	Heartbeat    time.Duration
}

// DefaultConfig returns the production exchange settings.
func DefaultConfig(url string) Config {
	return Config{
		URL:          url,
		Exchange:     "shoptrack.dispatch",
		ExchangeType: "topic",
		Heartbeat:    10 * time.Second,
	}
}

// dispatchMessage is the wire shape published per dispatch.
type dispatchMessage struct {
	Recipient string         `json:"recipient"`
	JobID     string         `json:"job_id"`
	Form      model.FormType `json:"form"`
	SentAt    time.Time      `json:"sent_at"`
}

// AMQPNotifier publishes dispatch notifications to a topic exchange, routed
// by form type so driver and technician consumers bind only their legs.
type AMQPNotifier struct {
	config Config
	logger *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPNotifier dials the broker and declares the dispatch exchange.
func NewAMQPNotifier(cfg Config, logger *slog.Logger) (*AMQPNotifier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultConfig(cfg.URL).Exchange
	}
	if cfg.ExchangeType == "" {
		cfg.ExchangeType = "topic"
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Heartbeat: cfg.Heartbeat,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		cfg.Exchange,
		cfg.ExchangeType,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	logger.Info("amqp notifier connected", "exchange", cfg.Exchange)
	return &AMQPNotifier{config: cfg, logger: logger, conn: conn, channel: channel}, nil
}

// NotifyDispatch publishes one dispatch-assignment message.
func (n *AMQPNotifier) NotifyDispatch(
	ctx context.Context,
	recipient, jobID string,
	form model.FormType,
) error {
	body, err := json.Marshal(dispatchMessage{
		Recipient: recipient,
		JobID:     jobID,
		Form:      form,
		SentAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal dispatch message: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.channel == nil {
		return fmt.Errorf("amqp notifier is closed")
	}

	if err := n.channel.PublishWithContext(
		ctx,
		n.config.Exchange,
		"dispatch."+string(form),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			// MessageId lets consumers deduplicate redelivered messages.
			MessageId: uuid.NewString(),
			Timestamp: time.Now(),
		},
	); err != nil {
		return fmt.Errorf("publish dispatch message: %w", err)
	}

	n.logger.Debug("dispatch notification published",
		"job_id", jobID, "form", form, "recipient", recipient)
	return nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.channel != nil {
		if err := n.channel.Close(); err != nil {
			n.logger.Warn("amqp channel close failed", "error", err)
		}
		n.channel = nil
	}
	if n.conn != nil {
		err := n.conn.Close()
		n.conn = nil
		return err
	}
	return nil
}

// NoopNotifier discards notifications, used when no broker is configured.
type NoopNotifier struct{}

// NotifyDispatch does nothing.
func (NoopNotifier) NotifyDispatch(context.Context, string, string, model.FormType) error {
	return nil
}
