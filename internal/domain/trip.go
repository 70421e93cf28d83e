package domain

import (
	"fmt"
	"time"
)

const (
	// SeatCapacity is the number of seats on every bus.
	SeatCapacity = 44

	// DateLayout is the wire format for travel dates.
	DateLayout = "2006-01-02"
)

// Trip identifies one trip instance: a route on a calendar date at one of
// the scheduled departure times. All seat state is scoped to a Trip.
type Trip struct {
	RouteID    string `json:"route_id"`
	TravelDate string `json:"travel_date"`
	Departure  string `json:"departure"`
}

// Key returns a stable identifier for the trip instance.
func (t Trip) Key() string {
	return t.RouteID + "|" + t.TravelDate + "|" + t.Departure
}

// Validate checks the trip against the catalog: the route must exist, the
// travel date must parse and not be earlier than today, and the departure
// must be in the route's schedule. Checks run in that order.
func (t Trip) Validate() error {
	if err := ValidateRoute(t.RouteID); err != nil {
		return err
	}
	if err := ValidateTravelDate(t.TravelDate); err != nil {
		return err
	}
	if !HasDeparture(t.RouteID, t.Departure) {
		return fmt.Errorf("departure %q on route %q: %w", t.Departure, t.RouteID, ErrInvalidTimeSlot)
	}
	return nil
}

// ValidateRoute checks the identifier against the catalog.
func ValidateRoute(routeID string) error {
	if _, ok := RouteByID(routeID); !ok {
		return fmt.Errorf("route %q: %w", routeID, ErrInvalidRoute)
	}
	return nil
}

// ValidateTravelDate checks the date format and that the date is not
// earlier than today in the server's local zone.
func ValidateTravelDate(travelDate string) error {
	d, err := time.ParseInLocation(DateLayout, travelDate, time.Local)
	if err != nil {
		return fmt.Errorf("travel date %q: %w", travelDate, ErrInvalidDate)
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if d.Before(today) {
		return fmt.Errorf("travel date %q is in the past: %w", travelDate, ErrInvalidDate)
	}
	return nil
}

// ValidSeatNumber reports whether n is within [1, SeatCapacity].
func ValidSeatNumber(n int) bool {
	return n >= 1 && n <= SeatCapacity
}
