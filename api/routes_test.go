package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmuriuki/busline/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockScheduleUseCase struct {
	mock.Mock
}

func (m *MockScheduleUseCase) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Route), args.Error(1)
}

func (m *MockScheduleUseCase) ListTimeSlots(ctx context.Context, routeID, travelDate string) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, routeID, travelDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

func setupScheduleRouter(schedules *MockScheduleUseCase, bookings *MockBookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewScheduleHandler(schedules, bookings)
	handler.Register(router.Group("/routes"))
	return router
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScheduleHandler_ListRoutes(t *testing.T) {
	mockSchedules := &MockScheduleUseCase{}
	router := setupScheduleRouter(mockSchedules, &MockBookingUseCase{})

	mockSchedules.On("ListRoutes", mock.Anything).Return(domain.Routes(), nil).Once()

	w := getJSON(router, "/routes/")

	assert.Equal(t, http.StatusOK, w.Code)

	var routes []domain.Route
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &routes))
	assert.Len(t, routes, 2)
	assert.Equal(t, "nairobi-garissa", routes[0].ID)

	mockSchedules.AssertExpectations(t)
}

func TestScheduleHandler_ListSlots(t *testing.T) {
	mockSchedules := &MockScheduleUseCase{}
	router := setupScheduleRouter(mockSchedules, &MockBookingUseCase{})

	slots := []domain.TimeSlot{
		{Departure: "06:00", Available: true},
		{Departure: "08:00", Available: false},
	}
	mockSchedules.On("ListTimeSlots", mock.Anything, "nairobi-garissa", "2026-09-15").Return(slots, nil).Once()

	w := getJSON(router, "/routes/nairobi-garissa/slots?date=2026-09-15")

	assert.Equal(t, http.StatusOK, w.Code)

	var got []domain.TimeSlot
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, slots, got)
}

func TestScheduleHandler_ListSlots_UnknownRoute(t *testing.T) {
	mockSchedules := &MockScheduleUseCase{}
	router := setupScheduleRouter(mockSchedules, &MockBookingUseCase{})

	mockSchedules.On("ListTimeSlots", mock.Anything, "nairobi-kisumu", "2026-09-15").
		Return(nil, domain.ErrInvalidRoute).Once()

	w := getJSON(router, "/routes/nairobi-kisumu/slots?date=2026-09-15")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandler_ListSlots_BadDate(t *testing.T) {
	mockSchedules := &MockScheduleUseCase{}
	router := setupScheduleRouter(mockSchedules, &MockBookingUseCase{})

	mockSchedules.On("ListTimeSlots", mock.Anything, "nairobi-garissa", "15/09/2026").
		Return(nil, domain.ErrInvalidDate).Once()

	w := getJSON(router, "/routes/nairobi-garissa/slots?date=15%2F09%2F2026")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandler_ListSeats(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	router := setupScheduleRouter(&MockScheduleUseCase{}, mockBookings)

	seats := make([]domain.SeatStatus, 0, domain.SeatCapacity)
	for n := 1; n <= domain.SeatCapacity; n++ {
		state := domain.SeatAvailable
		if n == 12 {
			state = domain.SeatBooked
		}
		seats = append(seats, domain.SeatStatus{Number: n, State: state})
	}
	mockBookings.On("ListSeats", mock.Anything, "nairobi-garissa", "2026-09-15", "08:00").Return(seats, nil).Once()

	w := getJSON(router, "/routes/nairobi-garissa/seats?date=2026-09-15&time=08:00")

	assert.Equal(t, http.StatusOK, w.Code)

	var got []domain.SeatStatus
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, domain.SeatCapacity)
	assert.Equal(t, domain.SeatBooked, got[11].State)
	assert.Equal(t, domain.SeatAvailable, got[0].State)
}

func TestScheduleHandler_ListSeats_BadSlot(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	router := setupScheduleRouter(&MockScheduleUseCase{}, mockBookings)

	mockBookings.On("ListSeats", mock.Anything, "nairobi-garissa", "2026-09-15", "07:30").
		Return(nil, domain.ErrInvalidTimeSlot).Once()

	w := getJSON(router, "/routes/nairobi-garissa/seats?date=2026-09-15&time=07:30")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
