package notify

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
)

// Message is the outbox payload for one notification.
type Message struct {
	ID        uuid.UUID        `json:"id"`
	BranchID  uuid.UUID        `json:"branch_id"`
	Channel   entities.Channel `json:"channel"`
	Recipient string           `json:"recipient"`
	Subject   string           `json:"subject,omitempty"`
	Body      string           `json:"body"`
}

// MessageFrom builds the outbox payload of a stored notification.
func MessageFrom(n entities.Notification) Message {
	return Message{
		ID:        n.ID,
		BranchID:  n.BranchID,
		Channel:   n.Channel,
		Recipient: n.Recipient,
		Subject:   n.Subject,
		Body:      n.Body,
	}
}

// Publisher hands notifications to the delivery pipeline.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// KafkaPublisher writes messages to the notifications topic keyed by id.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

// NewKafkaPublisher constructs a KafkaPublisher.
func NewKafkaPublisher(log *zap.SugaredLogger, brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		log: log.Named("notify.kafka"),
	}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, msg Message) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(msg.ID.String()), Value: value}); err != nil {
		p.log.Errorw("failed to publish notification", "error", err, "notification_id", msg.ID)
		return fmt.Errorf("publish notification: %w", err)
	}
	p.log.Debugw("notification published", "notification_id", msg.ID, "channel", msg.Channel)
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher only logs messages. It is used when no brokers are configured.
type LogPublisher struct {
	log *zap.SugaredLogger
}

// NewLogPublisher constructs a LogPublisher.
func NewLogPublisher(log *zap.SugaredLogger) *LogPublisher {
	return &LogPublisher{log: log.Named("notify.log")}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	p.log.Infow("notification queued without broker",
		"notification_id", msg.ID,
		"channel", msg.Channel,
		"recipient", msg.Recipient,
	)
	return nil
}

// Close implements Publisher.
func (p *LogPublisher) Close() error { return nil }
