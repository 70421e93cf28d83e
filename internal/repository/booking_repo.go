package repository

import (
	"context"
	"time"

	"github.com/dmuriuki/busline/internal/domain"
)

// BookingRepository is the durable store for bookings and seat holds.
//
// CreateBooking is the atomicity boundary required by the booking
// contract: the check that the seat is free and the write that marks it
// booked happen as one indivisible step per trip/seat tuple. When
// holdToken is non-empty the matching hold is consumed in the same step.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *domain.Booking, holdToken string) error
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	BookedSeats(ctx context.Context, trip domain.Trip) (map[int]bool, error)
	BookedCountByDeparture(ctx context.Context, routeID, travelDate string) (map[string]int, error)

	CreateHold(ctx context.Context, hold *domain.SeatHold) error
	GetHoldByToken(ctx context.Context, token string) (*domain.SeatHold, error)
	HeldSeats(ctx context.Context, trip domain.Trip) (map[int]bool, error)
	DeleteExpiredHolds(ctx context.Context, deadline time.Time) ([]domain.SeatHold, error)
}
