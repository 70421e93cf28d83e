package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmuriuki/busline/internal/domain"
	"github.com/dmuriuki/busline/internal/repository"
	"github.com/dmuriuki/busline/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireSeatHold(ctx context.Context, trip domain.Trip, seat int, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, trip, seat, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseSeatHold(ctx context.Context, trip domain.Trip, seat int) error {
	args := m.Called(ctx, trip, seat)
	return args.Error(0)
}

func (m *MockCache) GetRoutes(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockCache) SetRoutes(ctx context.Context, routes []domain.Route) error {
	args := m.Called(ctx, routes)
	return args.Error(0)
}

func TestScheduleService_ListRoutes_CacheMiss(t *testing.T) {
	mockCache := &MockCache{}
	service := NewScheduleService(repository.NewMemoryBookingRepository(), mockCache, logger.NewNop())

	ctx := context.Background()

	mockCache.On("GetRoutes", ctx).Return(nil, errors.New("redis: nil")).Once()
	mockCache.On("SetRoutes", ctx, domain.Routes()).Return(nil).Once()

	routes, err := service.ListRoutes(ctx)

	assert.NoError(t, err)
	assert.Equal(t, domain.Routes(), routes)
	mockCache.AssertExpectations(t)
}

func TestScheduleService_ListRoutes_CacheHit(t *testing.T) {
	mockCache := &MockCache{}
	service := NewScheduleService(repository.NewMemoryBookingRepository(), mockCache, logger.NewNop())

	ctx := context.Background()
	cached := domain.Routes()

	mockCache.On("GetRoutes", ctx).Return(cached, nil).Once()

	routes, err := service.ListRoutes(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, routes)
	mockCache.AssertNotCalled(t, "SetRoutes")
}

func TestScheduleService_ListRoutes_NoCache(t *testing.T) {
	service := NewScheduleService(repository.NewMemoryBookingRepository(), nil, logger.NewNop())

	routes, err := service.ListRoutes(context.Background())

	assert.NoError(t, err)
	assert.Len(t, routes, 2)
}

func TestScheduleService_ListTimeSlots(t *testing.T) {
	repo := repository.NewMemoryBookingRepository()
	service := NewScheduleService(repo, nil, logger.NewNop())

	ctx := context.Background()
	date := time.Now().AddDate(0, 0, 1).Format(domain.DateLayout)

	slots, err := service.ListTimeSlots(ctx, "nairobi-garissa", date)

	assert.NoError(t, err)
	assert.Len(t, slots, 6)
	assert.Equal(t, "06:00", slots[0].Departure)
	assert.Equal(t, "20:00", slots[5].Departure)
	for _, slot := range slots {
		assert.True(t, slot.Available)
	}

	// the listing is read-only; a second call sees the same result
	again, err := service.ListTimeSlots(ctx, "nairobi-garissa", date)
	assert.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestScheduleService_ListTimeSlots_FullTrip(t *testing.T) {
	repo := repository.NewMemoryBookingRepository()
	service := NewScheduleService(repo, nil, logger.NewNop())

	ctx := context.Background()
	date := time.Now().AddDate(0, 0, 1).Format(domain.DateLayout)

	for seat := 1; seat <= domain.SeatCapacity; seat++ {
		booking := &domain.Booking{
			Reference:     fmt.Sprintf("SLE-FULL%02d", seat),
			RouteID:       "nairobi-garissa",
			TravelDate:    date,
			Departure:     "08:00",
			SeatNumber:    seat,
			PassengerName: "Amina Yusuf",
			IDNumber:      "12345678",
			Phone:         "0712345678",
			Email:         "amina@example.com",
		}
		assert.NoError(t, repo.CreateBooking(ctx, booking, ""))
	}

	slots, err := service.ListTimeSlots(ctx, "nairobi-garissa", date)
	assert.NoError(t, err)

	byDeparture := make(map[string]bool, len(slots))
	for _, slot := range slots {
		byDeparture[slot.Departure] = slot.Available
	}
	assert.False(t, byDeparture["08:00"])
	assert.True(t, byDeparture["06:00"])
	assert.True(t, byDeparture["10:00"])
}

func TestScheduleService_ListTimeSlots_InvalidRoute(t *testing.T) {
	service := NewScheduleService(repository.NewMemoryBookingRepository(), nil, logger.NewNop())

	date := time.Now().AddDate(0, 0, 1).Format(domain.DateLayout)
	_, err := service.ListTimeSlots(context.Background(), "nairobi-kisumu", date)

	assert.ErrorIs(t, err, domain.ErrInvalidRoute)
}

func TestScheduleService_ListTimeSlots_PastDate(t *testing.T) {
	service := NewScheduleService(repository.NewMemoryBookingRepository(), nil, logger.NewNop())

	yesterday := time.Now().AddDate(0, 0, -1).Format(domain.DateLayout)
	_, err := service.ListTimeSlots(context.Background(), "nairobi-garissa", yesterday)

	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}
