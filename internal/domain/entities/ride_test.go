package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVehicleType(t *testing.T) {
	tests := []struct {
		in   string
		want VehicleType
		ok   bool
	}{
		{"Car", VehicleTypeCar, true},
		{" bike ", VehicleTypeBike, true},
		{"ALL", "", true},
		{"", "", true},
		{"Bus", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseVehicleType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestRide_BookLeavesReceiverUntouched(t *testing.T) {
	r := NewRide("r1", "E1", VehicleTypeCar, "KA01", 1, "09:00", "A", "B", "2024-05-01")

	booked := r.Book("E2")
	assert.Equal(t, 0, booked.VacantSeats)
	assert.Equal(t, []string{"E2"}, booked.BookedEmployeeIDs)
	assert.True(t, booked.HasBooker("E2"))

	assert.Equal(t, 1, r.VacantSeats)
	assert.Empty(t, r.BookedEmployeeIDs)
	assert.False(t, r.HasBooker("E2"))
}

func TestRide_CloneDoesNotShareBookers(t *testing.T) {
	r := NewRide("r1", "E1", VehicleTypeBike, "B1", 2, "09:00", "A", "B", "2024-05-01").Book("E2")
	c := r.Clone()
	c.BookedEmployeeIDs[0] = "E9"
	assert.Equal(t, "E2", r.BookedEmployeeIDs[0])
}

func TestRide_NormalizeFillsNilBookers(t *testing.T) {
	r := Ride{ID: "r1"}
	r.Normalize()
	assert.NotNil(t, r.BookedEmployeeIDs)
	assert.Empty(t, r.BookedEmployeeIDs)
}

func TestNormalizeEmployeeID(t *testing.T) {
	assert.Equal(t, "EMP_1", NormalizeEmployeeID("  emp_1 "))
}
