package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmuriuki/busline/internal/domain"
	"github.com/dmuriuki/busline/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type passengerRequest struct {
	Name     string `json:"name" binding:"required"`
	IDNumber string `json:"id_number" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

type createBookingRequest struct {
	RouteID    string           `json:"route_id" binding:"required"`
	TravelDate string           `json:"travel_date" binding:"required"`
	Departure  string           `json:"departure" binding:"required"`
	SeatNumber int              `json:"seat_number" binding:"required"`
	HoldToken  string           `json:"hold_token"`
	Passenger  passengerRequest `json:"passenger" binding:"required"`
}

type holdSeatRequest struct {
	RouteID    string `json:"route_id" binding:"required"`
	TravelDate string `json:"travel_date" binding:"required"`
	Departure  string `json:"departure" binding:"required"`
	SeatNumber int    `json:"seat_number" binding:"required"`
}

type bookingResponse struct {
	Reference     string `json:"reference"`
	RouteID       string `json:"route_id"`
	TravelDate    string `json:"travel_date"`
	Departure     string `json:"departure"`
	SeatNumber    int    `json:"seat_number"`
	PassengerName string `json:"passenger_name"`
	BaseFare      int64  `json:"base_fare"`
	BookingFee    int64  `json:"booking_fee"`
	TotalFare     int64  `json:"total_fare"`
	CreatedAt     string `json:"created_at"`
}

type holdResponse struct {
	Token      string `json:"token"`
	RouteID    string `json:"route_id"`
	TravelDate string `json:"travel_date"`
	Departure  string `json:"departure"`
	SeatNumber int    `json:"seat_number"`
	ExpiresAt  string `json:"expires_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(bookings, holds *gin.RouterGroup) {
	bookings.POST("/", h.create)
	bookings.GET("/:reference", h.get)
	holds.POST("/", h.hold)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		RouteID:    req.RouteID,
		TravelDate: req.TravelDate,
		Departure:  req.Departure,
		SeatNumber: req.SeatNumber,
		HoldToken:  req.HoldToken,
		Passenger: domain.Passenger{
			Name:     req.Passenger.Name,
			IDNumber: req.Passenger.IDNumber,
			Phone:    req.Passenger.Phone,
			Email:    req.Passenger.Email,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	reference := c.Param("reference")
	if !domain.IsReference(reference) {
		respondError(c, fmt.Errorf("reference %q is malformed: %w", reference, domain.ErrBookingNotFound))
		return
	}

	found, err := h.service.GetBooking(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) hold(c *gin.Context) {
	var req holdSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hold, err := h.service.HoldSeat(c.Request.Context(), booking.HoldSeatInput{
		RouteID:    req.RouteID,
		TravelDate: req.TravelDate,
		Departure:  req.Departure,
		SeatNumber: req.SeatNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, holdResponse{
		Token:      hold.Token,
		RouteID:    hold.RouteID,
		TravelDate: hold.TravelDate,
		Departure:  hold.Departure,
		SeatNumber: hold.SeatNumber,
		ExpiresAt:  hold.ExpiresAt.Format(time.RFC3339),
	})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		Reference:     b.Reference,
		RouteID:       b.RouteID,
		TravelDate:    b.TravelDate,
		Departure:     b.Departure,
		SeatNumber:    b.SeatNumber,
		PassengerName: b.PassengerName,
		BaseFare:      b.BaseFare,
		BookingFee:    b.BookingFee,
		TotalFare:     b.TotalFare,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
