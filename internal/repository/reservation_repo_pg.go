package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository interface {
	ListByUser(ctx context.Context, username string) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

// ListByUser returns the caller's non-canceled reservations ordered by id,
// with the itinerary legs joined back in.
func (r *PGReservationRepository) ListByUser(ctx context.Context, username string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT
			res.id, res.first_fid, res.second_fid, res.day, res.username, res.paid, res.canceled,
			f1.fid, f1.day_of_month, f1.carrier_id, f1.flight_num, f1.origin_city, f1.dest_city, f1.actual_time, f1.capacity, f1.price,
			f2.fid, f2.day_of_month, f2.carrier_id, f2.flight_num, f2.origin_city, f2.dest_city, f2.actual_time, f2.capacity, f2.price
		FROM reservations res
		JOIN flights f1 ON f1.fid = res.first_fid
		LEFT JOIN flights f2 ON f2.fid = res.second_fid
		WHERE res.username=$1 AND res.canceled=false
		ORDER BY res.id ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var (
			res domain.Reservation
			f1  domain.Flight
			f2  struct {
				ID         sql.NullInt64
				DayOfMonth sql.NullInt64
				CarrierID  sql.NullString
				FlightNum  sql.NullString
				OriginCity sql.NullString
				DestCity   sql.NullString
				Duration   sql.NullInt64
				Capacity   sql.NullInt64
				Price      sql.NullInt64
			}
		)
		if err := rows.Scan(
			&res.ID, &res.Key.First, &res.Key.Second, &res.Day, &res.Username, &res.Paid, &res.Canceled,
			&f1.ID, &f1.DayOfMonth, &f1.CarrierID, &f1.FlightNum, &f1.OriginCity, &f1.DestCity, &f1.Duration, &f1.Capacity, &f1.Price,
			&f2.ID, &f2.DayOfMonth, &f2.CarrierID, &f2.FlightNum, &f2.OriginCity, &f2.DestCity, &f2.Duration, &f2.Capacity, &f2.Price,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}

		res.Legs = []domain.Flight{f1}
		if f2.ID.Valid {
			res.Legs = append(res.Legs, domain.Flight{
				ID:         f2.ID.Int64,
				DayOfMonth: int(f2.DayOfMonth.Int64),
				CarrierID:  f2.CarrierID.String,
				FlightNum:  f2.FlightNum.String,
				OriginCity: f2.OriginCity.String,
				DestCity:   f2.DestCity.String,
				Duration:   int(f2.Duration.Int64),
				Capacity:   int(f2.Capacity.Int64),
				Price:      f2.Price.Int64,
			})
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
