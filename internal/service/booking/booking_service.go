package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmuriuki/busline/config"
	"github.com/dmuriuki/busline/internal/domain"
	"github.com/dmuriuki/busline/internal/kafka"
	"github.com/dmuriuki/busline/internal/repository"
	"github.com/dmuriuki/busline/pkg/logger"
	"github.com/dmuriuki/busline/pkg/metrics"
	"github.com/google/uuid"
)

// maxReferenceAttempts bounds the regeneration loop when a freshly drawn
// booking reference collides with a stored one.
const maxReferenceAttempts = 5

type BookingUseCase interface {
	ListSeats(ctx context.Context, routeID, travelDate, departure string) ([]domain.SeatStatus, error)
	HoldSeat(ctx context.Context, input HoldSeatInput) (*domain.SeatHold, error)
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, reference string) (*domain.Booking, error)
	ReleaseExpiredHolds(ctx context.Context) ([]domain.SeatHold, error)
}

// Cache is the Redis fast path: SETNX seat locks bounding the window
// between availability check and confirmation, plus the route catalog.
type Cache interface {
	AcquireSeatHold(ctx context.Context, trip domain.Trip, seat int, ttl time.Duration) (bool, error)
	ReleaseSeatHold(ctx context.Context, trip domain.Trip, seat int) error
	GetRoutes(ctx context.Context) ([]domain.Route, error)
	SetRoutes(ctx context.Context, routes []domain.Route) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	log                logger.Logger
	metrics            *metrics.Metrics
	bookingTopic       string
	notificationsTopic string
	referencePrefix    string
	baseFare           int64
	bookingFee         int64
	holdTTL            time.Duration
}

type HoldSeatInput struct {
	RouteID    string `json:"route_id"`
	TravelDate string `json:"travel_date"`
	Departure  string `json:"departure"`
	SeatNumber int    `json:"seat_number"`
}

type CreateBookingInput struct {
	RouteID    string           `json:"route_id"`
	TravelDate string           `json:"travel_date"`
	Departure  string           `json:"departure"`
	SeatNumber int              `json:"seat_number"`
	HoldToken  string           `json:"hold_token"`
	Passenger  domain.Passenger `json:"passenger"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	log logger.Logger,
	cfg config.BookingConfig,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		cache:           cache,
		producer:        producer,
		log:             log,
		bookingTopic:    bookingTopic,
		referencePrefix: cfg.ReferencePrefix,
		baseFare:        cfg.BaseFare,
		bookingFee:      cfg.BookingFee,
		holdTTL:         time.Duration(cfg.HoldTTLMinutes) * time.Minute,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) ListSeats(ctx context.Context, routeID, travelDate, departure string) ([]domain.SeatStatus, error) {
	trip := domain.Trip{RouteID: routeID, TravelDate: travelDate, Departure: departure}
	if err := trip.Validate(); err != nil {
		return nil, err
	}

	booked, err := s.bookings.BookedSeats(ctx, trip)
	if err != nil {
		return nil, err
	}
	held, err := s.bookings.HeldSeats(ctx, trip)
	if err != nil {
		return nil, err
	}

	seats := make([]domain.SeatStatus, 0, domain.SeatCapacity)
	for n := 1; n <= domain.SeatCapacity; n++ {
		state := domain.SeatAvailable
		switch {
		case booked[n]:
			state = domain.SeatBooked
		case held[n]:
			state = domain.SeatHeld
		}
		seats = append(seats, domain.SeatStatus{Number: n, State: state})
	}
	return seats, nil
}

func (s *BookingService) HoldSeat(ctx context.Context, input HoldSeatInput) (*domain.SeatHold, error) {
	trip := domain.Trip{RouteID: input.RouteID, TravelDate: input.TravelDate, Departure: input.Departure}
	if err := trip.Validate(); err != nil {
		return nil, err
	}
	if !domain.ValidSeatNumber(input.SeatNumber) {
		return nil, fmt.Errorf("seat %d is out of range: %w", input.SeatNumber, domain.ErrSeatUnavailable)
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSeatHold(ctx, trip, input.SeatNumber, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.countConflict()
			return nil, fmt.Errorf("seat %d on trip %s: %w", input.SeatNumber, trip.Key(), domain.ErrSeatUnavailable)
		}
		locked = true
	}

	hold := &domain.SeatHold{
		Token:      uuid.NewString(),
		RouteID:    input.RouteID,
		TravelDate: input.TravelDate,
		Departure:  input.Departure,
		SeatNumber: input.SeatNumber,
		ExpiresAt:  time.Now().Add(s.holdTTL),
	}
	if err := s.bookings.CreateHold(ctx, hold); err != nil {
		if locked {
			_ = s.cache.ReleaseSeatHold(ctx, trip, input.SeatNumber)
		}
		if errors.Is(err, domain.ErrSeatUnavailable) {
			s.countConflict()
		} else {
			s.countError("create_hold")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.HoldsCreated.Inc()
	}
	s.publish(ctx, hold.Token, kafka.BookingEvent{
		Type:       "seat_held",
		HoldToken:  hold.Token,
		RouteID:    hold.RouteID,
		TravelDate: hold.TravelDate,
		Departure:  hold.Departure,
		SeatNumber: hold.SeatNumber,
		OccurredAt: hold.CreatedAt,
	})
	return hold, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	started := time.Now()

	trip := domain.Trip{RouteID: input.RouteID, TravelDate: input.TravelDate, Departure: input.Departure}
	if err := trip.Validate(); err != nil {
		return nil, err
	}
	if !domain.ValidSeatNumber(input.SeatNumber) {
		return nil, fmt.Errorf("seat %d is out of range: %w", input.SeatNumber, domain.ErrSeatUnavailable)
	}
	if err := input.Passenger.Validate(); err != nil {
		return nil, err
	}

	// Direct confirmations take the short Redis lock themselves. Hold
	// promotions already own the lock placed by HoldSeat.
	locked := false
	if s.cache != nil && input.HoldToken == "" {
		ok, err := s.cache.AcquireSeatHold(ctx, trip, input.SeatNumber, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.countConflict()
			return nil, fmt.Errorf("seat %d on trip %s: %w", input.SeatNumber, trip.Key(), domain.ErrSeatUnavailable)
		}
		locked = true
	}

	reference, err := s.allocateReference(ctx)
	if err != nil {
		if locked {
			_ = s.cache.ReleaseSeatHold(ctx, trip, input.SeatNumber)
		}
		return nil, err
	}

	booking := &domain.Booking{
		Reference:     reference,
		RouteID:       input.RouteID,
		TravelDate:    input.TravelDate,
		Departure:     input.Departure,
		SeatNumber:    input.SeatNumber,
		PassengerName: input.Passenger.Name,
		IDNumber:      input.Passenger.IDNumber,
		Phone:         input.Passenger.Phone,
		Email:         input.Passenger.Email,
		BaseFare:      s.baseFare,
		BookingFee:    s.bookingFee,
		TotalFare:     s.baseFare + s.bookingFee,
	}

	if err := s.bookings.CreateBooking(ctx, booking, input.HoldToken); err != nil {
		if locked {
			_ = s.cache.ReleaseSeatHold(ctx, trip, input.SeatNumber)
		}
		if errors.Is(err, domain.ErrSeatUnavailable) {
			s.countConflict()
		} else {
			s.countError("create_booking")
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.ReleaseSeatHold(ctx, trip, input.SeatNumber)
	}
	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
		s.metrics.BookingDuration.Observe(time.Since(started).Seconds())
	}
	s.publish(ctx, booking.Reference, kafka.BookingEvent{
		Type:       "booking_confirmed",
		Reference:  booking.Reference,
		RouteID:    booking.RouteID,
		TravelDate: booking.TravelDate,
		Departure:  booking.Departure,
		SeatNumber: booking.SeatNumber,
		Email:      booking.Email,
		TotalFare:  booking.TotalFare,
		OccurredAt: booking.CreatedAt,
	})
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	return s.bookings.GetByReference(ctx, reference)
}

func (s *BookingService) ReleaseExpiredHolds(ctx context.Context) ([]domain.SeatHold, error) {
	expired, err := s.bookings.DeleteExpiredHolds(ctx, time.Now())
	if err != nil {
		s.countError("release_holds")
		return nil, err
	}
	for _, h := range expired {
		if s.cache != nil {
			_ = s.cache.ReleaseSeatHold(ctx, h.Trip(), h.SeatNumber)
		}
		s.publish(ctx, h.Token, kafka.BookingEvent{
			Type:       "hold_expired",
			HoldToken:  h.Token,
			RouteID:    h.RouteID,
			TravelDate: h.TravelDate,
			Departure:  h.Departure,
			SeatNumber: h.SeatNumber,
			OccurredAt: h.ExpiresAt,
		})
	}
	if s.metrics != nil && len(expired) > 0 {
		s.metrics.HoldsExpired.Add(float64(len(expired)))
	}
	return expired, nil
}

// allocateReference draws candidates until one is unused, within a small
// bound. The store's unique constraint remains the backstop for a race
// between this check and the insert.
func (s *BookingService) allocateReference(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		candidate := domain.NewReference(s.referencePrefix)
		exists, err := s.bookings.ReferenceExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("gave up after %d attempts: %w", maxReferenceAttempts, domain.ErrReferenceExhausted)
}

func (s *BookingService) publish(ctx context.Context, key string, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		s.countError("publish")
		s.log.Warn("publish booking event failed", "type", event.Type, "key", key, "error", err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			s.countError("publish")
			s.log.Warn("publish notification failed", "type", event.Type, "key", key, "error", err)
		}
	}
}

func (s *BookingService) countConflict() {
	if s.metrics != nil {
		s.metrics.SeatConflicts.Inc()
	}
}

func (s *BookingService) countError(operation string) {
	if s.metrics != nil {
		s.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}

var _ BookingUseCase = (*BookingService)(nil)
