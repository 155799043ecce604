package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageReader is the slice of kafka.Reader the consumer needs.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads reservation events from a topic and hands the decoded
// event to a handler. A payload that does not decode is logged and skipped;
// it would fail the same way on every redelivery.
type Consumer struct {
	reader messageReader
	logger zerolog.Logger
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
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, ReservationEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		var event ReservationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error().Err(err).
				Str("topic", msg.Topic).
				Int64("offset", msg.Offset).
				Msg("skip undecodable reservation event")
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}
