// Package metrics exposes reservation engine metrics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder records booking operations in Prometheus metrics.
type PromRecorder struct {
	ops      *prometheus.CounterVec
	occupied prometheus.Gauge
}

// NewPromRecorder registers the reservation metrics on reg.  If reg is nil,
// the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "room_reservation_operations_total",
		Help: "Reservation engine operations by kind and outcome",
	}, []string{"op", "outcome"})
	occupied := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "room_reservations_occupied",
		Help: "Number of slots currently holding a reservation",
	})

	if err := reg.Register(ops); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		ops = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(occupied); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		occupied = are.ExistingCollector.(prometheus.Gauge)
	}
	return &PromRecorder{ops: ops, occupied: occupied}, nil
}

// Observe counts one operation.
func (r *PromRecorder) Observe(op, outcome string) {
	r.ops.WithLabelValues(op, outcome).Inc()
}

// SetOccupied publishes the current number of reservations.
func (r *PromRecorder) SetOccupied(n int) {
	r.occupied.Set(float64(n))
}
