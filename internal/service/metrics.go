package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Booking outcomes recorded by Metrics.
const (
	OutcomeBooked     = "booked"
	OutcomeConflict   = "conflict"
	OutcomeValidation = "validation"
	OutcomeError      = "error"
)

// Metrics exposes counters/histograms for the scheduling flows. A nil
// *Metrics records nothing.
type Metrics struct {
	appointmentsTotal *prometheus.CounterVec
	transitionsTotal  *prometheus.CounterVec
	bookingLatency    prometheus.Histogram
	slotsResolved     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "appointments_total",
			Help:      "Appointment booking attempts by outcome",
		}, []string{"outcome"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "appointment_transitions_total",
			Help:      "Appointment status changes by target status",
		}, []string{"status"}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "booking_latency_seconds",
			Help:      "Latency of appointment creation",
			Buckets:   prometheus.DefBuckets,
		}),
		slotsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "slots_resolved_total",
			Help:      "Slots produced by availability queries",
		}, []string{"available"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsTotal, m.transitionsTotal, m.bookingLatency, m.slotsResolved)
	return m
}

func (m *Metrics) ObserveBooking(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(outcome).Inc()
	m.bookingLatency.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveSlots(available, unavailable int) {
	if m == nil {
		return
	}
	m.slotsResolved.WithLabelValues("true").Add(float64(available))
	m.slotsResolved.WithLabelValues("false").Add(float64(unavailable))
}
