package email

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/rs/zerolog"
)

type Sender struct {
	logger zerolog.Logger
}

func NewSender(logger zerolog.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	s.logger.Info().
		Str("type", event.Type).
		Str("username", event.Username).
		Int64("reservation_id", event.ReservationID).
		Msg("send reservation notification")
	return nil
}
