package api

import (
	"net/http"

	"github.com/dmuriuki/busline/internal/service/booking"
	"github.com/dmuriuki/busline/internal/service/schedule"
	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	schedules schedule.ScheduleUseCase
	bookings  booking.BookingUseCase
}

func NewScheduleHandler(schedules schedule.ScheduleUseCase, bookings booking.BookingUseCase) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, bookings: bookings}
}

func (h *ScheduleHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id/slots", h.slots)
	router.GET("/:id/seats", h.seats)
}

func (h *ScheduleHandler) list(c *gin.Context) {
	routes, err := h.schedules.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (h *ScheduleHandler) slots(c *gin.Context) {
	slots, err := h.schedules.ListTimeSlots(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *ScheduleHandler) seats(c *gin.Context) {
	seats, err := h.bookings.ListSeats(c.Request.Context(), c.Param("id"), c.Query("date"), c.Query("time"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seats)
}
