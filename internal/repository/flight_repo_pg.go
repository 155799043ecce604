package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	SearchDirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error)
	SearchIndirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `fid, day_of_month, carrier_id, flight_num, origin_city, dest_city, actual_time, capacity, price`

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE fid=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("flight %d: %w", id, domain.ErrFlightNotFound)
		}
		return nil, err
	}
	return &f, nil
}

// SearchDirect returns up to limit single-leg itineraries ordered by flight
// time, flight id as tiebreak. Canceled flights are excluded from search but
// stay addressable by id for existing reservations.
func (r *PGFlightRepository) SearchDirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin_city=$1 AND dest_city=$2 AND day_of_month=$3 AND canceled=0
		ORDER BY actual_time ASC, fid ASC
		LIMIT $4`, origin, dest, day, limit)
	if err != nil {
		return nil, fmt.Errorf("search direct flights: %w", err)
	}
	defer rows.Close()

	var itineraries []domain.Itinerary
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		itineraries = append(itineraries, domain.DirectItinerary(f))
	}
	return itineraries, rows.Err()
}

// SearchIndirect returns up to limit two-leg itineraries connecting through
// an intermediate city on the same day, ordered by combined flight time.
func (r *PGFlightRepository) SearchIndirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error) {
	rows, err := r.db.Query(ctx, `SELECT
			f1.fid, f1.day_of_month, f1.carrier_id, f1.flight_num, f1.origin_city, f1.dest_city, f1.actual_time, f1.capacity, f1.price,
			f2.fid, f2.day_of_month, f2.carrier_id, f2.flight_num, f2.origin_city, f2.dest_city, f2.actual_time, f2.capacity, f2.price
		FROM flights f1
		JOIN flights f2 ON f1.dest_city = f2.origin_city AND f1.day_of_month = f2.day_of_month
		WHERE f1.origin_city=$1 AND f2.dest_city=$2 AND f1.day_of_month=$3 AND f1.canceled=0 AND f2.canceled=0
		ORDER BY (f1.actual_time + f2.actual_time) ASC, f1.fid ASC, f2.fid ASC
		LIMIT $4`, origin, dest, day, limit)
	if err != nil {
		return nil, fmt.Errorf("search indirect flights: %w", err)
	}
	defer rows.Close()

	var itineraries []domain.Itinerary
	for rows.Next() {
		var f1, f2 domain.Flight
		if err := rows.Scan(
			&f1.ID, &f1.DayOfMonth, &f1.CarrierID, &f1.FlightNum, &f1.OriginCity, &f1.DestCity, &f1.Duration, &f1.Capacity, &f1.Price,
			&f2.ID, &f2.DayOfMonth, &f2.CarrierID, &f2.FlightNum, &f2.OriginCity, &f2.DestCity, &f2.Duration, &f2.Capacity, &f2.Price,
		); err != nil {
			return nil, fmt.Errorf("scan indirect itinerary: %w", err)
		}
		itineraries = append(itineraries, domain.LayoverItinerary(f1, f2))
	}
	return itineraries, rows.Err()
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	if err := row.Scan(&f.ID, &f.DayOfMonth, &f.CarrierID, &f.FlightNum, &f.OriginCity, &f.DestCity, &f.Duration, &f.Capacity, &f.Price); err != nil {
		return fmt.Errorf("scan flight: %w", err)
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
