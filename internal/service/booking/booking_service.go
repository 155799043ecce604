package booking

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/rs/zerolog"
)

type BookingUseCase interface {
	Book(ctx context.Context, session domain.Session, itineraryIndex int) (int64, error)
	Pay(ctx context.Context, session domain.Session, reservationID int64) (int64, error)
	Cancel(ctx context.Context, session domain.Session, reservationID int64) error
	ListReservations(ctx context.Context, session domain.Session) ([]domain.Reservation, error)
}

type ItineraryCache interface {
	GetItinerary(ctx context.Context, token string, index int) (*domain.Itinerary, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	units              repository.TxRunner
	reservations       repository.ReservationRepository
	cache              ItineraryCache
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	releaseOnCancel    bool
	logger             zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithReleaseOnCancel makes cancellation restore seat capacity and free the
// owner's same-day slot. The default keeps the historical policy: a canceled
// seat stays consumed and the day stays blocked.
func WithReleaseOnCancel(release bool) BookingServiceOption {
	return func(s *BookingService) {
		s.releaseOnCancel = release
	}
}

func NewBookingService(
	units repository.TxRunner,
	reservations repository.ReservationRepository,
	cache ItineraryCache,
	producer Producer,
	reservationsTopic string,
	logger zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	s := &BookingService{
		units:             units,
		reservations:      reservations,
		cache:             cache,
		producer:          producer,
		reservationsTopic: reservationsTopic,
		logger:            logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book reserves the itinerary at the given index of the session's most
// recent search. The same-day check, per-leg capacity decrements, itinerary
// persistence and reservation insert run as one serializable unit: either
// all of them commit or none are visible.
func (s *BookingService) Book(ctx context.Context, session domain.Session, itineraryIndex int) (int64, error) {
	if session.Username == "" {
		return 0, domain.ErrNotAuthenticated
	}

	it, err := s.cache.GetItinerary(ctx, session.Token, itineraryIndex)
	if err != nil {
		return 0, err
	}

	var reservationID int64
	err = s.units.Run(ctx, func(ctx context.Context, l repository.Ledger) error {
		held, err := l.CountReservationsOnDay(ctx, session.Username, it.DayOfMonth(), s.releaseOnCancel)
		if err != nil {
			return err
		}
		if held > 0 {
			return domain.ErrSameDayConflict
		}

		if err := l.ReserveSeat(ctx, it.First.ID); err != nil {
			return err
		}
		if it.Layover() {
			if err := l.ReserveSeat(ctx, it.Second.ID); err != nil {
				return err
			}
		}

		if err := l.UpsertItinerary(ctx, *it); err != nil {
			return err
		}

		reservationID, err = l.InsertReservation(ctx, session.Username, *it)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Str("username", session.Username).
		Int64("reservation_id", reservationID).
		Int("day", it.DayOfMonth()).
		Msg("itinerary booked")
	s.publish(ctx, kafka.ReservationEvent{
		Type:          kafka.EventReservationBooked,
		ReservationID: reservationID,
		Username:      session.Username,
		Day:           it.DayOfMonth(),
		Price:         it.Price(),
	})
	return reservationID, nil
}

// Pay debits the owner's balance by the itinerary price and marks the
// reservation paid, atomically. A reservation that is already paid, already
// canceled, or owned by someone else is indistinguishable from a missing
// one.
func (s *BookingService) Pay(ctx context.Context, session domain.Session, reservationID int64) (int64, error) {
	if session.Username == "" {
		return 0, domain.ErrNotAuthenticated
	}

	var newBalance int64
	var day int
	var price int64
	err := s.units.Run(ctx, func(ctx context.Context, l repository.Ledger) error {
		res, err := l.ReservationForPayment(ctx, reservationID, session.Username)
		if err != nil {
			return err
		}

		price, err = l.ItineraryPrice(ctx, res.Key)
		if err != nil {
			return err
		}
		balance, err := l.Balance(ctx, session.Username)
		if err != nil {
			return err
		}
		if price > balance {
			return fmt.Errorf("%w: balance %d, price %d", domain.ErrInsufficientFunds, balance, price)
		}

		newBalance = balance - price
		if err := l.SetBalance(ctx, session.Username, newBalance); err != nil {
			return err
		}
		if err := l.SetPaid(ctx, reservationID, true); err != nil {
			return err
		}
		day = res.Day
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Str("username", session.Username).
		Int64("reservation_id", reservationID).
		Int64("balance", newBalance).
		Msg("reservation paid")
	s.publish(ctx, kafka.ReservationEvent{
		Type:          kafka.EventReservationPaid,
		ReservationID: reservationID,
		Username:      session.Username,
		Day:           day,
		Price:         price,
	})
	return newBalance, nil
}

// Cancel refunds a paid reservation and retires its id permanently: the row
// stays in the store with the canceled flag set and never satisfies another
// booking, payment or cancellation lookup.
func (s *BookingService) Cancel(ctx context.Context, session domain.Session, reservationID int64) error {
	if session.Username == "" {
		return domain.ErrNotAuthenticated
	}

	var day int
	err := s.units.Run(ctx, func(ctx context.Context, l repository.Ledger) error {
		res, err := l.ReservationForCancel(ctx, reservationID, session.Username)
		if err != nil {
			return err
		}

		if res.Paid {
			price, err := l.ItineraryPrice(ctx, res.Key)
			if err != nil {
				return err
			}
			balance, err := l.Balance(ctx, session.Username)
			if err != nil {
				return err
			}
			if err := l.SetBalance(ctx, session.Username, balance+price); err != nil {
				return err
			}
			if err := l.SetPaid(ctx, reservationID, false); err != nil {
				return err
			}
		}

		if err := l.SetCanceled(ctx, reservationID); err != nil {
			return err
		}

		if s.releaseOnCancel {
			if err := l.RestoreSeat(ctx, res.Key.First); err != nil {
				return err
			}
			if res.Key.Second != 0 {
				if err := l.RestoreSeat(ctx, res.Key.Second); err != nil {
					return err
				}
			}
		}

		day = res.Day
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("username", session.Username).
		Int64("reservation_id", reservationID).
		Msg("reservation canceled")
	s.publish(ctx, kafka.ReservationEvent{
		Type:          kafka.EventReservationCanceled,
		ReservationID: reservationID,
		Username:      session.Username,
		Day:           day,
	})
	return nil
}

func (s *BookingService) ListReservations(ctx context.Context, session domain.Session) ([]domain.Reservation, error) {
	if session.Username == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.reservations.ListByUser(ctx, session.Username)
}

func (s *BookingService) publish(ctx context.Context, event kafka.ReservationEvent) {
	if s.producer == nil || s.reservationsTopic == "" {
		return
	}
	key := strconv.FormatInt(event.ReservationID, 10)
	if err := s.producer.Publish(ctx, s.reservationsTopic, key, event); err != nil {
		s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish reservation event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			s.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
