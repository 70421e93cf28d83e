package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmuriuki/busline/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testTrip() domain.Trip {
	return domain.Trip{RouteID: "nairobi-garissa", TravelDate: "2026-09-15", Departure: "08:00"}
}

func testBooking(reference string, seat int) *domain.Booking {
	trip := testTrip()
	return &domain.Booking{
		Reference:     reference,
		RouteID:       trip.RouteID,
		TravelDate:    trip.TravelDate,
		Departure:     trip.Departure,
		SeatNumber:    seat,
		PassengerName: "Amina Yusuf",
		IDNumber:      "12345678",
		Phone:         "0712345678",
		Email:         "amina@example.com",
		BaseFare:      2500,
		BookingFee:    100,
		TotalFare:     2600,
	}
}

func testHold(token string, seat int, expiresAt time.Time) *domain.SeatHold {
	trip := testTrip()
	return &domain.SeatHold{
		Token:      token,
		RouteID:    trip.RouteID,
		TravelDate: trip.TravelDate,
		Departure:  trip.Departure,
		SeatNumber: seat,
		ExpiresAt:  expiresAt,
	}
}

func TestMemoryRepo_CreateBooking(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	booking := testBooking("SLE-AAA111", 12)
	assert.NoError(t, repo.CreateBooking(ctx, booking, ""))
	assert.NotZero(t, booking.ID)
	assert.False(t, booking.CreatedAt.IsZero())

	booked, err := repo.BookedSeats(ctx, testTrip())
	assert.NoError(t, err)
	assert.True(t, booked[12])
	assert.Len(t, booked, 1)
}

func TestMemoryRepo_CreateBooking_SeatTaken(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-AAA111", 12), ""))

	err := repo.CreateBooking(ctx, testBooking("SLE-BBB222", 12), "")
	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)
}

func TestMemoryRepo_CreateBooking_SeatScopedToTrip(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-AAA111", 12), ""))

	otherDay := testBooking("SLE-BBB222", 12)
	otherDay.TravelDate = "2026-09-16"
	assert.NoError(t, repo.CreateBooking(ctx, otherDay, ""))

	otherTime := testBooking("SLE-CCC333", 12)
	otherTime.Departure = "10:00"
	assert.NoError(t, repo.CreateBooking(ctx, otherTime, ""))
}

func TestMemoryRepo_CreateBooking_DuplicateReference(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-AAA111", 12), ""))

	err := repo.CreateBooking(ctx, testBooking("SLE-AAA111", 13), "")
	assert.ErrorIs(t, err, domain.ErrReferenceExhausted)
}

func TestMemoryRepo_CreateBooking_BlockedByForeignHold(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.CreateHold(ctx, testHold("tok-1", 12, time.Now().Add(time.Minute))))

	err := repo.CreateBooking(ctx, testBooking("SLE-AAA111", 12), "")
	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)

	// The holder's own token goes through and consumes the hold.
	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-BBB222", 12), "tok-1"))
	_, err = repo.GetHoldByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, domain.ErrHoldNotFound)
}

func TestMemoryRepo_CreateBooking_ExpiredHoldDoesNotBlock(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.CreateHold(ctx, testHold("tok-1", 12, time.Now().Add(-time.Minute))))
	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-AAA111", 12), ""))
}

func TestMemoryRepo_GetByReference(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	created := testBooking("SLE-AAA111", 7)
	assert.NoError(t, repo.CreateBooking(ctx, created, ""))

	found, err := repo.GetByReference(ctx, "SLE-AAA111")
	assert.NoError(t, err)
	assert.Equal(t, created.SeatNumber, found.SeatNumber)
	assert.Equal(t, created.PassengerName, found.PassengerName)

	_, err = repo.GetByReference(ctx, "SLE-ZZZ999")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestMemoryRepo_ReferenceExists(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	exists, err := repo.ReferenceExists(ctx, "SLE-AAA111")
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-AAA111", 1), ""))

	exists, err = repo.ReferenceExists(ctx, "SLE-AAA111")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryRepo_BookedCountByDeparture(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-AAA111", 1), ""))
	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-BBB222", 2), ""))

	ten := testBooking("SLE-CCC333", 1)
	ten.Departure = "10:00"
	assert.NoError(t, repo.CreateBooking(ctx, ten, ""))

	counts, err := repo.BookedCountByDeparture(ctx, "nairobi-garissa", "2026-09-15")
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"08:00": 2, "10:00": 1}, counts)
}

func TestMemoryRepo_Holds(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	hold := testHold("tok-1", 5, time.Now().Add(time.Minute))
	assert.NoError(t, repo.CreateHold(ctx, hold))
	assert.NotZero(t, hold.ID)

	// second hold on the same seat fails while the first is active
	err := repo.CreateHold(ctx, testHold("tok-2", 5, time.Now().Add(time.Minute)))
	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)

	held, err := repo.HeldSeats(ctx, testTrip())
	assert.NoError(t, err)
	assert.True(t, held[5])

	found, err := repo.GetHoldByToken(ctx, "tok-1")
	assert.NoError(t, err)
	assert.Equal(t, 5, found.SeatNumber)
}

func TestMemoryRepo_CreateHold_SeatBooked(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.CreateBooking(ctx, testBooking("SLE-AAA111", 5), ""))

	err := repo.CreateHold(ctx, testHold("tok-1", 5, time.Now().Add(time.Minute)))
	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)
}

func TestMemoryRepo_DeleteExpiredHolds(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	assert.NoError(t, repo.CreateHold(ctx, testHold("tok-old", 5, time.Now().Add(-time.Minute))))
	assert.NoError(t, repo.CreateHold(ctx, testHold("tok-new", 6, time.Now().Add(time.Hour))))

	expired, err := repo.DeleteExpiredHolds(ctx, time.Now())
	assert.NoError(t, err)
	assert.Len(t, expired, 1)
	assert.Equal(t, "tok-old", expired[0].Token)

	held, err := repo.HeldSeats(ctx, testTrip())
	assert.NoError(t, err)
	assert.False(t, held[5])
	assert.True(t, held[6])
}

func TestMemoryRepo_BookedSeatsMonotonic(t *testing.T) {
	repo := NewMemoryBookingRepository()
	ctx := context.Background()

	for seat := 1; seat <= domain.SeatCapacity; seat++ {
		booking := testBooking(fmt.Sprintf("SLE-SEAT%02d", seat), seat)
		assert.NoError(t, repo.CreateBooking(ctx, booking, ""))

		booked, err := repo.BookedSeats(ctx, testTrip())
		assert.NoError(t, err)
		assert.Len(t, booked, seat)
	}

	// Bus is full; nothing can reduce or exceed the 44 booked seats.
	err := repo.CreateBooking(ctx, testBooking("SLE-EXTRA1", 44), "")
	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)

	booked, err := repo.BookedSeats(ctx, testTrip())
	assert.NoError(t, err)
	assert.Len(t, booked, domain.SeatCapacity)
}
