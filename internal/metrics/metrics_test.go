package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

func TestRecorder_RecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.RecordOperation("book_ride", "success")
	rec.RecordOperation("book_ride", "success")
	rec.RecordOperation("book_ride", "conflict")

	expected := `
# HELP carpool_ride_operations_total Ride registry operations by outcome
# TYPE carpool_ride_operations_total counter
carpool_ride_operations_total{operation="book_ride",outcome="conflict"} 1
carpool_ride_operations_total{operation="book_ride",outcome="success"} 2
`
	if err := testutil.CollectAndCompare(rec.operations, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestRecorder_RecordRides(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rides := []entities.Ride{
		entities.NewRide("a", "A", entities.VehicleTypeCar, "KA01", 3, "09:00", "P", "D", "2024-05-01"),
		entities.NewRide("b", "B", entities.VehicleTypeCar, "KA02", 1, "10:00", "P", "D", "2024-05-01"),
	}
	rec.RecordRides(rides)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.rides))
	assert.Equal(t, 4.0, testutil.ToFloat64(rec.vacantSeats.WithLabelValues("Car")))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.vacantSeats.WithLabelValues("Bike")))

	rec.RecordRides(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.rides))
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.vacantSeats.WithLabelValues("Car")))
}

func TestNewRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	second.RecordOperation("add_ride", "success")
	assert.Equal(t, 1.0, testutil.ToFloat64(first.operations.WithLabelValues("add_ride", "success")))
}
