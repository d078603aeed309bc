// Package metrics exposes registry activity as Prometheus collectors.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

// Recorder implements services.MetricsRecorder.
type Recorder struct {
	operations  *prometheus.CounterVec
	rides       prometheus.Gauge
	vacantSeats *prometheus.GaugeVec
}

// NewRecorder registers the carpool collectors on reg, or on the default
// registerer when reg is nil. Collectors that are already registered are
// reused, so building a second Recorder in the same process is harmless.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "carpool_ride_operations_total",
		Help: "Ride registry operations by outcome",
	}, []string{"operation", "outcome"})
	rides := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "carpool_rides",
		Help: "Rides currently held by the registry",
	})
	vacant := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "carpool_vacant_seats",
		Help: "Unbooked seats across all rides, by vehicle type",
	}, []string{"vehicle_type"})

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if rides, err = register(reg, rides); err != nil {
		return nil, err
	}
	if vacant, err = register(reg, vacant); err != nil {
		return nil, err
	}
	return &Recorder{operations: operations, rides: rides, vacantSeats: vacant}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (r *Recorder) RecordOperation(operation, outcome string) {
	r.operations.WithLabelValues(operation, outcome).Inc()
}

func (r *Recorder) RecordRides(rides []entities.Ride) {
	r.rides.Set(float64(len(rides)))
	seats := make(map[entities.VehicleType]int, len(entities.VehicleTypes))
	for _, vt := range entities.VehicleTypes {
		seats[vt] = 0
	}
	for _, ride := range rides {
		seats[ride.VehicleType] += ride.VacantSeats
	}
	for vt, n := range seats {
		r.vacantSeats.WithLabelValues(string(vt)).Set(float64(n))
	}
}
