package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmuriuki/busline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking, holdToken string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if holdToken != "" {
		// Consume the caller's hold. A missing or expired hold is not
		// fatal on its own; the seat check below still decides.
		if _, err := tx.Exec(ctx, `DELETE FROM seat_holds
			WHERE token=$1 AND route_id=$2 AND travel_date=$3 AND departure=$4 AND seat_number=$5`,
			holdToken, booking.RouteID, booking.TravelDate, booking.Departure, booking.SeatNumber); err != nil {
			return err
		}
	}

	var held bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM seat_holds
		WHERE route_id=$1 AND travel_date=$2 AND departure=$3 AND seat_number=$4 AND expires_at > now())`,
		booking.RouteID, booking.TravelDate, booking.Departure, booking.SeatNumber).Scan(&held); err != nil {
		return err
	}
	if held {
		return fmt.Errorf("seat %d is held on trip %s: %w", booking.SeatNumber, booking.Trip().Key(), domain.ErrSeatUnavailable)
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings
		(reference, route_id, travel_date, departure, seat_number, passenger_name, id_number, phone, email, base_fare, booking_fee, total_fare)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`,
		booking.Reference, booking.RouteID, booking.TravelDate, booking.Departure, booking.SeatNumber,
		booking.PassengerName, booking.IDNumber, booking.Phone, booking.Email,
		booking.BaseFare, booking.BookingFee, booking.TotalFare).
		Scan(&booking.ID, &booking.CreatedAt); err != nil {
		return mapInsertError(err, booking)
	}

	return tx.Commit(ctx)
}

// mapInsertError translates the unique constraints backing the booking
// contract into domain failures.
func mapInsertError(err error, booking *domain.Booking) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "reference") {
			return fmt.Errorf("reference %s already exists: %w", booking.Reference, domain.ErrReferenceExhausted)
		}
		return fmt.Errorf("seat %d already booked on trip %s: %w", booking.SeatNumber, booking.Trip().Key(), domain.ErrSeatUnavailable)
	}
	return err
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, reference, route_id, to_char(travel_date, 'YYYY-MM-DD'), departure, seat_number,
		passenger_name, id_number, phone, email, base_fare, booking_fee, total_fare, created_at
		FROM bookings WHERE reference=$1`, reference)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Reference, &b.RouteID, &b.TravelDate, &b.Departure, &b.SeatNumber,
		&b.PassengerName, &b.IDNumber, &b.Phone, &b.Email, &b.BaseFare, &b.BookingFee, &b.TotalFare, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reference %s: %w", reference, domain.ErrBookingNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE reference=$1)`, reference).Scan(&exists)
	return exists, err
}

func (r *PGBookingRepository) BookedSeats(ctx context.Context, trip domain.Trip) (map[int]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_number FROM bookings
		WHERE route_id=$1 AND travel_date=$2 AND departure=$3`,
		trip.RouteID, trip.TravelDate, trip.Departure)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	booked := make(map[int]bool)
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		booked[seat] = true
	}
	return booked, rows.Err()
}

func (r *PGBookingRepository) BookedCountByDeparture(ctx context.Context, routeID, travelDate string) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT departure, count(*) FROM bookings
		WHERE route_id=$1 AND travel_date=$2 GROUP BY departure`, routeID, travelDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var departure string
		var n int
		if err := rows.Scan(&departure, &n); err != nil {
			return nil, err
		}
		counts[departure] = n
	}
	return counts, rows.Err()
}

func (r *PGBookingRepository) CreateHold(ctx context.Context, hold *domain.SeatHold) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var taken bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(
			SELECT 1 FROM bookings WHERE route_id=$1 AND travel_date=$2 AND departure=$3 AND seat_number=$4
			UNION ALL
			SELECT 1 FROM seat_holds WHERE route_id=$1 AND travel_date=$2 AND departure=$3 AND seat_number=$4 AND expires_at > now())`,
		hold.RouteID, hold.TravelDate, hold.Departure, hold.SeatNumber).Scan(&taken); err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("seat %d on trip %s: %w", hold.SeatNumber, hold.Trip().Key(), domain.ErrSeatUnavailable)
	}

	// Stale rows for the same seat must go first or the unique
	// constraint on the trip/seat tuple would still reject the insert.
	if _, err := tx.Exec(ctx, `DELETE FROM seat_holds
		WHERE route_id=$1 AND travel_date=$2 AND departure=$3 AND seat_number=$4 AND expires_at <= now()`,
		hold.RouteID, hold.TravelDate, hold.Departure, hold.SeatNumber); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, `INSERT INTO seat_holds
		(token, route_id, travel_date, departure, seat_number, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		hold.Token, hold.RouteID, hold.TravelDate, hold.Departure, hold.SeatNumber, hold.ExpiresAt).
		Scan(&hold.ID, &hold.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("seat %d on trip %s: %w", hold.SeatNumber, hold.Trip().Key(), domain.ErrSeatUnavailable)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetHoldByToken(ctx context.Context, token string) (*domain.SeatHold, error) {
	row := r.db.QueryRow(ctx, `SELECT id, token, route_id, to_char(travel_date, 'YYYY-MM-DD'), departure, seat_number, expires_at, created_at
		FROM seat_holds WHERE token=$1`, token)
	var h domain.SeatHold
	if err := row.Scan(&h.ID, &h.Token, &h.RouteID, &h.TravelDate, &h.Departure, &h.SeatNumber, &h.ExpiresAt, &h.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("token %s: %w", token, domain.ErrHoldNotFound)
		}
		return nil, err
	}
	return &h, nil
}

func (r *PGBookingRepository) HeldSeats(ctx context.Context, trip domain.Trip) (map[int]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_number FROM seat_holds
		WHERE route_id=$1 AND travel_date=$2 AND departure=$3 AND expires_at > now()`,
		trip.RouteID, trip.TravelDate, trip.Departure)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	held := make(map[int]bool)
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		held[seat] = true
	}
	return held, rows.Err()
}

func (r *PGBookingRepository) DeleteExpiredHolds(ctx context.Context, deadline time.Time) ([]domain.SeatHold, error) {
	rows, err := r.db.Query(ctx, `DELETE FROM seat_holds WHERE expires_at <= $1
		RETURNING id, token, route_id, to_char(travel_date, 'YYYY-MM-DD'), departure, seat_number, expires_at, created_at`, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.SeatHold
	for rows.Next() {
		var h domain.SeatHold
		if err := rows.Scan(&h.ID, &h.Token, &h.RouteID, &h.TravelDate, &h.Departure, &h.SeatNumber, &h.ExpiresAt, &h.CreatedAt); err != nil {
			return nil, err
		}
		expired = append(expired, h)
	}
	return expired, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
