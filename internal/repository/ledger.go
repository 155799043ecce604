package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
)

// Ledger is the set of mutations available inside one atomic unit. Every
// method runs on the unit's transaction; nothing is visible to other
// sessions until the unit commits.
type Ledger interface {
	CountReservationsOnDay(ctx context.Context, username string, day int, activeOnly bool) (int, error)
	ReserveSeat(ctx context.Context, flightID int64) error
	RestoreSeat(ctx context.Context, flightID int64) error
	UpsertItinerary(ctx context.Context, it domain.Itinerary) error
	InsertReservation(ctx context.Context, username string, it domain.Itinerary) (int64, error)
	ReservationForPayment(ctx context.Context, id int64, username string) (*domain.Reservation, error)
	ReservationForCancel(ctx context.Context, id int64, username string) (*domain.Reservation, error)
	ItineraryPrice(ctx context.Context, key domain.ItineraryKey) (int64, error)
	Balance(ctx context.Context, username string) (int64, error)
	SetBalance(ctx context.Context, username string, balance int64) error
	SetPaid(ctx context.Context, reservationID int64, paid bool) error
	SetCanceled(ctx context.Context, reservationID int64) error
	ClearAll(ctx context.Context) error
}

type pgLedger struct {
	tx pgx.Tx
}

func (l *pgLedger) CountReservationsOnDay(ctx context.Context, username string, day int, activeOnly bool) (int, error) {
	q := `SELECT COUNT(*) FROM reservations WHERE username=$1 AND day=$2`
	if activeOnly {
		q += ` AND canceled=false`
	}
	var n int
	if err := l.tx.QueryRow(ctx, q, username, day).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reservations on day: %w", err)
	}
	return n, nil
}

// ReserveSeat materializes the flight's remaining-seat counter on first use,
// then decrements it. The conditional UPDATE is the single check-then-write:
// zero rows affected means the counter is already at zero and nothing was
// mutated.
func (l *pgLedger) ReserveSeat(ctx context.Context, flightID int64) error {
	_, err := l.tx.Exec(ctx, `INSERT INTO capacities (fid, remaining)
		SELECT fid, capacity FROM flights WHERE fid=$1
		ON CONFLICT (fid) DO NOTHING`, flightID)
	if err != nil {
		return fmt.Errorf("materialize capacity: %w", err)
	}

	res, err := l.tx.Exec(ctx, `UPDATE capacities SET remaining = remaining - 1 WHERE fid=$1 AND remaining > 0`, flightID)
	if err != nil {
		return fmt.Errorf("decrement capacity: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrCapacityExhausted
	}
	return nil
}

func (l *pgLedger) RestoreSeat(ctx context.Context, flightID int64) error {
	_, err := l.tx.Exec(ctx, `UPDATE capacities SET remaining = remaining + 1 WHERE fid=$1`, flightID)
	if err != nil {
		return fmt.Errorf("restore capacity: %w", err)
	}
	return nil
}

// UpsertItinerary persists the itinerary under its derived key. The key is
// already checked by the session cache, so a conflict is not expected, but
// replaying the insert must not corrupt the row.
func (l *pgLedger) UpsertItinerary(ctx context.Context, it domain.Itinerary) error {
	k := it.Key()
	_, err := l.tx.Exec(ctx, `INSERT INTO itineraries (first_fid, second_fid, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (first_fid, second_fid) DO NOTHING`, k.First, k.Second, it.Price())
	if err != nil {
		return fmt.Errorf("persist itinerary: %w", err)
	}
	return nil
}

func (l *pgLedger) InsertReservation(ctx context.Context, username string, it domain.Itinerary) (int64, error) {
	k := it.Key()
	var id int64
	err := l.tx.QueryRow(ctx, `INSERT INTO reservations (first_fid, second_fid, day, username, paid, canceled)
		VALUES ($1, $2, $3, $4, false, false)
		RETURNING id`, k.First, k.Second, it.DayOfMonth(), username).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	return id, nil
}

// ReservationForPayment finds a reservation eligible for payment: owned by
// the caller, unpaid and not canceled. Anything else, including rows owned
// by other users, is reported as not found.
func (l *pgLedger) ReservationForPayment(ctx context.Context, id int64, username string) (*domain.Reservation, error) {
	return l.findReservation(ctx, `SELECT id, first_fid, second_fid, day, username, paid, canceled
		FROM reservations WHERE id=$1 AND username=$2 AND paid=false AND canceled=false`, id, username)
}

// ReservationForCancel finds a reservation eligible for cancellation: owned
// by the caller and not already canceled.
func (l *pgLedger) ReservationForCancel(ctx context.Context, id int64, username string) (*domain.Reservation, error) {
	return l.findReservation(ctx, `SELECT id, first_fid, second_fid, day, username, paid, canceled
		FROM reservations WHERE id=$1 AND username=$2 AND canceled=false`, id, username)
}

func (l *pgLedger) findReservation(ctx context.Context, query string, args ...any) (*domain.Reservation, error) {
	var r domain.Reservation
	err := l.tx.QueryRow(ctx, query, args...).
		Scan(&r.ID, &r.Key.First, &r.Key.Second, &r.Day, &r.Username, &r.Paid, &r.Canceled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	return &r, nil
}

func (l *pgLedger) ItineraryPrice(ctx context.Context, key domain.ItineraryKey) (int64, error) {
	var price int64
	err := l.tx.QueryRow(ctx, `SELECT price FROM itineraries WHERE first_fid=$1 AND second_fid=$2`, key.First, key.Second).Scan(&price)
	if err != nil {
		return 0, fmt.Errorf("itinerary price: %w", err)
	}
	return price, nil
}

func (l *pgLedger) Balance(ctx context.Context, username string) (int64, error) {
	var balance int64
	err := l.tx.QueryRow(ctx, `SELECT balance FROM users WHERE username=$1`, username).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("user balance: %w", err)
	}
	return balance, nil
}

func (l *pgLedger) SetBalance(ctx context.Context, username string, balance int64) error {
	_, err := l.tx.Exec(ctx, `UPDATE users SET balance=$1 WHERE username=$2`, balance, username)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}

func (l *pgLedger) SetPaid(ctx context.Context, reservationID int64, paid bool) error {
	_, err := l.tx.Exec(ctx, `UPDATE reservations SET paid=$1 WHERE id=$2`, paid, reservationID)
	if err != nil {
		return fmt.Errorf("update payment flag: %w", err)
	}
	return nil
}

func (l *pgLedger) SetCanceled(ctx context.Context, reservationID int64) error {
	_, err := l.tx.Exec(ctx, `UPDATE reservations SET canceled=true WHERE id=$1`, reservationID)
	if err != nil {
		return fmt.Errorf("update cancellation flag: %w", err)
	}
	return nil
}

// ClearAll wipes all booking state in one unit, so a failure part-way
// through leaves the tables untouched. The flights reference table is never
// cleared.
func (l *pgLedger) ClearAll(ctx context.Context) error {
	for _, stmt := range []string{
		`DELETE FROM reservations`,
		`DELETE FROM users`,
		`DELETE FROM itineraries`,
		`DELETE FROM capacities`,
	} {
		if _, err := l.tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}
	return nil
}

var _ Ledger = (*pgLedger)(nil)
