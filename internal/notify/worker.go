package notify

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
)

// Reader is the subset of *kafka.Reader used by Worker.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaReader constructs a consumer-group reader for the notifications topic.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
}

// StatusFunc records the delivery outcome of a notification.
type StatusFunc func(ctx context.Context, id uuid.UUID, status entities.NotificationStatus, errMsg string) error

// Worker consumes the notifications topic and delivers each message once.
// Failed deliveries are recorded through the status callback and committed.
type Worker struct {
	reader Reader
	sender Sender
	status StatusFunc
	log    *zap.SugaredLogger
}

// NewWorker constructs a Worker.
func NewWorker(log *zap.SugaredLogger, reader Reader, sender Sender, status StatusFunc) *Worker {
	return &Worker{reader: reader, sender: sender, status: status, log: log.Named("notify.worker")}
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Infow("notifier started")
	defer w.log.Infow("notifier stopped")

	for {
		m, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		w.handle(ctx, m)

		if err := w.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.log.Errorw("failed to commit notification", "error", err, "offset", m.Offset)
			return err
		}
	}
}

func (w *Worker) handle(ctx context.Context, m kafka.Message) {
	var msg Message
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		w.log.Errorw("dropping malformed notification", "error", err, "key", string(m.Key), "offset", m.Offset)
		return
	}

	status, errMsg := entities.NotificationSent, ""
	if err := w.sender.Send(ctx, msg); err != nil {
		status, errMsg = entities.NotificationFailed, err.Error()
		w.log.Warnw("notification delivery failed", "error", err, "notification_id", msg.ID, "channel", msg.Channel)
	} else {
		w.log.Infow("notification delivered", "notification_id", msg.ID, "channel", msg.Channel)
	}

	if w.status == nil {
		return
	}
	if err := w.status(ctx, msg.ID, status, errMsg); err != nil {
		w.log.Errorw("failed to record notification status", "error", err, "notification_id", msg.ID)
	}
}
