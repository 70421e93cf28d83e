package schedule

import (
	"context"

	"github.com/dmuriuki/busline/internal/domain"
	"github.com/dmuriuki/busline/internal/repository"
	"github.com/dmuriuki/busline/internal/service/booking"
	"github.com/dmuriuki/busline/pkg/logger"
)

type ScheduleUseCase interface {
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	ListTimeSlots(ctx context.Context, routeID, travelDate string) ([]domain.TimeSlot, error)
}

type ScheduleService struct {
	bookings repository.BookingRepository
	cache    booking.Cache
	log      logger.Logger
}

func NewScheduleService(bookings repository.BookingRepository, cache booking.Cache, log logger.Logger) *ScheduleService {
	return &ScheduleService{bookings: bookings, cache: cache, log: log}
}

// ListRoutes serves the static catalog, cache-aside. The catalog cannot go
// stale, so a cache hit is always correct.
func (s *ScheduleService) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRoutes(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	routes := domain.Routes()
	if s.cache != nil {
		if err := s.cache.SetRoutes(ctx, routes); err != nil {
			s.log.Warn("cache routes failed", "error", err)
		}
	}
	return routes, nil
}

// ListTimeSlots returns the route's timetable for a date, each departure
// annotated with whether any seat on that trip instance remains unbooked.
func (s *ScheduleService) ListTimeSlots(ctx context.Context, routeID, travelDate string) ([]domain.TimeSlot, error) {
	if err := domain.ValidateRoute(routeID); err != nil {
		return nil, err
	}
	if err := domain.ValidateTravelDate(travelDate); err != nil {
		return nil, err
	}

	counts, err := s.bookings.BookedCountByDeparture(ctx, routeID, travelDate)
	if err != nil {
		return nil, err
	}

	times := domain.DepartureTimes(routeID)
	slots := make([]domain.TimeSlot, 0, len(times))
	for _, departure := range times {
		slots = append(slots, domain.TimeSlot{
			Departure: departure,
			Available: counts[departure] < domain.SeatCapacity,
		})
	}
	return slots, nil
}

var _ ScheduleUseCase = (*ScheduleService)(nil)
