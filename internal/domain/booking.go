package domain

import "time"

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatHeld      SeatState = "held"
	SeatBooked    SeatState = "booked"
)

// SeatStatus is one seat's state on a specific trip instance.
type SeatStatus struct {
	Number int       `json:"number"`
	State  SeatState `json:"state"`
}

// TimeSlot is a scheduled departure annotated with whether any seat on
// that trip instance remains unbooked.
type TimeSlot struct {
	Departure string `json:"departure"`
	Available bool   `json:"available"`
}

// Booking is a confirmed reservation of one seat on one trip instance.
// Bookings are immutable once created; there is no cancellation operation.
type Booking struct {
	ID            int64     `json:"-"`
	Reference     string    `json:"reference"`
	RouteID       string    `json:"route_id"`
	TravelDate    string    `json:"travel_date"`
	Departure     string    `json:"departure"`
	SeatNumber    int       `json:"seat_number"`
	PassengerName string    `json:"passenger_name"`
	IDNumber      string    `json:"id_number"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	BaseFare      int64     `json:"base_fare"`
	BookingFee    int64     `json:"booking_fee"`
	TotalFare     int64     `json:"total_fare"`
	CreatedAt     time.Time `json:"created_at"`
}

func (b *Booking) Trip() Trip {
	return Trip{RouteID: b.RouteID, TravelDate: b.TravelDate, Departure: b.Departure}
}

// SeatHold is a time-boxed provisional reservation of a seat. It keeps
// concurrent checkouts from grabbing the same seat and expires at
// ExpiresAt unless promoted to a booking first.
type SeatHold struct {
	ID         int64     `json:"-"`
	Token      string    `json:"token"`
	RouteID    string    `json:"route_id"`
	TravelDate string    `json:"travel_date"`
	Departure  string    `json:"departure"`
	SeatNumber int       `json:"seat_number"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *SeatHold) Trip() Trip {
	return Trip{RouteID: h.RouteID, TravelDate: h.TravelDate, Departure: h.Departure}
}
