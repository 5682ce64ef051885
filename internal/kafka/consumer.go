package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

const (
	defaultMinBackoff = 500 * time.Millisecond
	defaultMaxBackoff = 30 * time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer delivers messages at least once: an offset is committed only after
// the handler has accepted the message.
type Consumer struct {
	reader     messageReader
	logger     zerolog.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewConsumer(brokers []string, groupID, topic string, logger zerolog.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger:     logger.With().Str("component", "kafka_consumer").Logger(),
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume runs until ctx is done or the reader fails. A handler error does not
// stop the loop; the same message is retried with a doubling backoff.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.handle(ctx, msg, handler); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message, handler func(context.Context, kafka.Message) error) error {
	backoff := c.minBackoff
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}

		c.logger.Warn().Err(err).
			Int("attempt", attempt).
			Int64("offset", msg.Offset).
			Dur("backoff", backoff).
			Msg("handle message failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

// AuditHandler decodes audit events and hands them to sink. Undecodable
// messages are logged and skipped so one bad payload cannot stall the group.
func AuditHandler(logger zerolog.Logger, sink func(context.Context, domain.AuditEvent) error) func(context.Context, kafka.Message) error {
	return func(ctx context.Context, msg kafka.Message) error {
		var event domain.AuditEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error().Err(err).Int64("offset", msg.Offset).Msg("decode audit event")
			return nil
		}
		return sink(ctx, event)
	}
}
