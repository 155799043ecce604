package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReservationEvent is published after a booking, payment or cancellation
// unit commits. Events are best-effort: a publish failure never unwinds the
// committed transaction.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID int64  `json:"reservation_id"`
	Username      string `json:"username"`
	Day           int    `json:"day"`
	Price         int64  `json:"price"`
}

const (
	EventReservationBooked   = "reservation_booked"
	EventReservationPaid     = "reservation_paid"
	EventReservationCanceled = "reservation_canceled"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
