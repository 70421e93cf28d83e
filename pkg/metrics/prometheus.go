package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the booking-domain prometheus collectors. Construct once
// per process; promauto registers with the default registry.
type Metrics struct {
	BookingsCreated prometheus.Counter
	HoldsCreated    prometheus.Counter
	HoldsExpired    prometheus.Counter
	SeatConflicts   prometheus.Counter
	BookingDuration prometheus.Histogram
	ErrorsCount     *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of confirmed bookings",
		}),
		HoldsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_holds_created_total",
			Help:      "The total number of seat holds placed",
		}),
		HoldsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_holds_expired_total",
			Help:      "The total number of seat holds released by the sweeper",
		}),
		SeatConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_conflicts_total",
			Help:      "Booking or hold attempts rejected because the seat was taken",
		}),
		BookingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_duration_seconds",
			Help:      "Time taken to confirm a booking",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
