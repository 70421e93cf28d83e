package email

import (
	"context"
	"fmt"

	"github.com/dmuriuki/busline/internal/kafka"
	"github.com/dmuriuki/busline/pkg/logger"
)

// Sender renders passenger notifications for booking events. It runs in
// the worker so any delivery credentials stay on the backend; actual SMTP
// handoff is an external collaborator and the rendered message is logged.
type Sender struct {
	from string
	log  logger.Logger
}

func NewSender(from string, log logger.Logger) *Sender {
	return &Sender{from: from, log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		return nil
	}

	var subject, body string
	switch event.Type {
	case "booking_confirmed":
		subject = fmt.Sprintf("Ticket %s confirmed", event.Reference)
		body = fmt.Sprintf("Your seat %d on %s departing %s at %s is confirmed. Total fare: %d.",
			event.SeatNumber, event.RouteID, event.TravelDate, event.Departure, event.TotalFare)
	case "seat_held":
		subject = "Seat held"
		body = fmt.Sprintf("Seat %d on %s departing %s at %s is held for you until checkout completes.",
			event.SeatNumber, event.RouteID, event.TravelDate, event.Departure)
	default:
		return nil
	}

	s.log.Info("notification rendered",
		"from", s.from,
		"to", event.Email,
		"subject", subject,
		"body", body,
	)
	return nil
}
