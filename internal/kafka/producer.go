package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the payload published for every booking-domain state
// change. Type is one of "seat_held", "booking_confirmed", "hold_expired".
type BookingEvent struct {
	Type       string    `json:"type"`
	Reference  string    `json:"reference,omitempty"`
	HoldToken  string    `json:"hold_token,omitempty"`
	RouteID    string    `json:"route_id"`
	TravelDate string    `json:"travel_date"`
	Departure  string    `json:"departure"`
	SeatNumber int       `json:"seat_number"`
	Email      string    `json:"email,omitempty"`
	TotalFare  int64     `json:"total_fare,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
