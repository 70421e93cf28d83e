package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmuriuki/busline/internal/domain"
)

// MemoryBookingRepository implements BookingRepository entirely in memory.
// It backs the single-process deployment (no database configured) and the
// test suite. A single mutex serializes every check-and-mark, which is the
// whole concurrency contract at this scale.
type MemoryBookingRepository struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[string]*domain.Booking  // reference -> booking
	seats    map[string]map[int]string   // trip key -> seat -> reference
	holds    map[string]*domain.SeatHold // token -> hold
	held     map[string]map[int]string   // trip key -> seat -> token
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[string]*domain.Booking),
		seats:    make(map[string]map[int]string),
		holds:    make(map[string]*domain.SeatHold),
		held:     make(map[string]map[int]string),
	}
}

func (r *MemoryBookingRepository) CreateBooking(ctx context.Context, booking *domain.Booking, holdToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := booking.Trip().Key()
	if _, booked := r.seats[key][booking.SeatNumber]; booked {
		return fmt.Errorf("seat %d already booked on trip %s: %w", booking.SeatNumber, key, domain.ErrSeatUnavailable)
	}
	if holdToken != "" {
		r.consumeHoldLocked(holdToken, booking.Trip(), booking.SeatNumber)
	}
	if token, ok := r.held[key][booking.SeatNumber]; ok {
		hold := r.holds[token]
		if hold != nil && hold.ExpiresAt.After(time.Now()) {
			return fmt.Errorf("seat %d is held on trip %s: %w", booking.SeatNumber, key, domain.ErrSeatUnavailable)
		}
		r.dropHoldLocked(token)
	}
	if _, dup := r.bookings[booking.Reference]; dup {
		return fmt.Errorf("reference %s already exists: %w", booking.Reference, domain.ErrReferenceExhausted)
	}

	r.nextID++
	booking.ID = r.nextID
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}

	stored := *booking
	r.bookings[booking.Reference] = &stored
	if r.seats[key] == nil {
		r.seats[key] = make(map[int]string)
	}
	r.seats[key][booking.SeatNumber] = booking.Reference
	return nil
}

// consumeHoldLocked removes the caller's own hold so it no longer blocks
// the seat. Mismatched tokens are left alone and caught by the held check.
func (r *MemoryBookingRepository) consumeHoldLocked(token string, trip domain.Trip, seat int) {
	hold, ok := r.holds[token]
	if !ok {
		return
	}
	if hold.Trip() == trip && hold.SeatNumber == seat {
		r.dropHoldLocked(token)
	}
}

func (r *MemoryBookingRepository) dropHoldLocked(token string) {
	hold, ok := r.holds[token]
	if !ok {
		return
	}
	delete(r.holds, token)
	key := hold.Trip().Key()
	if r.held[key][hold.SeatNumber] == token {
		delete(r.held[key], hold.SeatNumber)
	}
}

func (r *MemoryBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[reference]
	if !ok {
		return nil, fmt.Errorf("reference %s: %w", reference, domain.ErrBookingNotFound)
	}
	out := *b
	return &out, nil
}

func (r *MemoryBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bookings[reference]
	return ok, nil
}

func (r *MemoryBookingRepository) BookedSeats(ctx context.Context, trip domain.Trip) (map[int]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booked := make(map[int]bool, len(r.seats[trip.Key()]))
	for seat := range r.seats[trip.Key()] {
		booked[seat] = true
	}
	return booked, nil
}

func (r *MemoryBookingRepository) BookedCountByDeparture(ctx context.Context, routeID, travelDate string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int)
	for _, departure := range domain.DepartureTimes(routeID) {
		trip := domain.Trip{RouteID: routeID, TravelDate: travelDate, Departure: departure}
		if n := len(r.seats[trip.Key()]); n > 0 {
			counts[departure] = n
		}
	}
	return counts, nil
}

func (r *MemoryBookingRepository) CreateHold(ctx context.Context, hold *domain.SeatHold) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := hold.Trip().Key()
	if _, booked := r.seats[key][hold.SeatNumber]; booked {
		return fmt.Errorf("seat %d on trip %s: %w", hold.SeatNumber, key, domain.ErrSeatUnavailable)
	}
	if token, ok := r.held[key][hold.SeatNumber]; ok {
		existing := r.holds[token]
		if existing != nil && existing.ExpiresAt.After(time.Now()) {
			return fmt.Errorf("seat %d on trip %s: %w", hold.SeatNumber, key, domain.ErrSeatUnavailable)
		}
		r.dropHoldLocked(token)
	}

	r.nextID++
	hold.ID = r.nextID
	if hold.CreatedAt.IsZero() {
		hold.CreatedAt = time.Now()
	}

	stored := *hold
	r.holds[hold.Token] = &stored
	if r.held[key] == nil {
		r.held[key] = make(map[int]string)
	}
	r.held[key][hold.SeatNumber] = hold.Token
	return nil
}

func (r *MemoryBookingRepository) GetHoldByToken(ctx context.Context, token string) (*domain.SeatHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holds[token]
	if !ok {
		return nil, fmt.Errorf("token %s: %w", token, domain.ErrHoldNotFound)
	}
	out := *h
	return &out, nil
}

func (r *MemoryBookingRepository) HeldSeats(ctx context.Context, trip domain.Trip) (map[int]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	held := make(map[int]bool)
	for seat, token := range r.held[trip.Key()] {
		if hold := r.holds[token]; hold != nil && hold.ExpiresAt.After(now) {
			held[seat] = true
		}
	}
	return held, nil
}

func (r *MemoryBookingRepository) DeleteExpiredHolds(ctx context.Context, deadline time.Time) ([]domain.SeatHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []domain.SeatHold
	for token, hold := range r.holds {
		if !hold.ExpiresAt.After(deadline) {
			expired = append(expired, *hold)
			r.dropHoldLocked(token)
		}
	}
	return expired, nil
}

var _ BookingRepository = (*MemoryBookingRepository)(nil)
