package entities

import (
	"slices"
	"strings"
)

// VehicleType is the kind of vehicle offered for a carpool ride.
type VehicleType string

const (
	VehicleTypeBike VehicleType = "Bike"
	VehicleTypeCar  VehicleType = "Car"
)

// VehicleTypes lists every accepted vehicle type, in the order a form would
// offer them.
var VehicleTypes = []VehicleType{VehicleTypeBike, VehicleTypeCar}

// Valid reports whether v is one of the known vehicle types.
func (v VehicleType) Valid() bool {
	return v == VehicleTypeBike || v == VehicleTypeCar
}

// ParseVehicleType accepts "Bike"/"Car" in any letter case. "All" and the
// empty string mean "no filter" and return ok=true with an empty type.
func ParseVehicleType(s string) (VehicleType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return "", true
	case "bike":
		return VehicleTypeBike, true
	case "car":
		return VehicleTypeCar, true
	}
	return "", false
}

// Ride is a carpool trip offered by one employee for a single day. Only the
// seat count and the booker list ever change after creation.
//
// Go Learning Note — JSON Shape as a Contract:
// The json tags below are the persisted payload format as well as the API
// response format. Renaming a tag would orphan every stored ride, so the
// camelCase names are fixed. The msgpack tags mirror them so the badger store
// writes the same field set.
type Ride struct {
	ID                string      `json:"id" msgpack:"id"`
	OwnerEmployeeID   string      `json:"ownerEmployeeId" msgpack:"ownerEmployeeId"`
	VehicleType       VehicleType `json:"vehicleType" msgpack:"vehicleType"`
	VehicleNo         string      `json:"vehicleNo" msgpack:"vehicleNo"`
	VacantSeats       int         `json:"vacantSeats" msgpack:"vacantSeats"`
	Time              string      `json:"time" msgpack:"time"` // HH:mm
	PickupPoint       string      `json:"pickupPoint" msgpack:"pickupPoint"`
	Destination       string      `json:"destination" msgpack:"destination"`
	BookedEmployeeIDs []string    `json:"bookedEmployeeIds" msgpack:"bookedEmployeeIds"`
	Date              string      `json:"date" msgpack:"date"` // YYYY-MM-DD
}

// NewRide creates a ride with no bookings yet.
func NewRide(id, ownerEmployeeID string, vehicleType VehicleType, vehicleNo string, vacantSeats int, time, pickupPoint, destination, date string) Ride {
	return Ride{
		ID:                id,
		OwnerEmployeeID:   ownerEmployeeID,
		VehicleType:       vehicleType,
		VehicleNo:         vehicleNo,
		VacantSeats:       vacantSeats,
		Time:              time,
		PickupPoint:       pickupPoint,
		Destination:       destination,
		BookedEmployeeIDs: []string{},
		Date:              date,
	}
}

// Clone returns a copy that shares no memory with r.
//
// Go Learning Note — Copying Structs with Slices:
// Assigning a struct copies its fields, but a slice field is only a header
// pointing at the same backing array. Appending to the copy's slice could
// write into r's array, so Clone allocates a fresh one.
func (r Ride) Clone() Ride {
	c := r
	c.BookedEmployeeIDs = make([]string, len(r.BookedEmployeeIDs))
	copy(c.BookedEmployeeIDs, r.BookedEmployeeIDs)
	return c
}

// HasBooker reports whether employeeID already holds a seat on this ride.
func (r Ride) HasBooker(employeeID string) bool {
	return slices.Contains(r.BookedEmployeeIDs, employeeID)
}

// Book returns a copy of r with one seat taken by employeeID. Callers check
// availability first; Book itself never lets VacantSeats go negative.
func (r Ride) Book(employeeID string) Ride {
	c := r.Clone()
	if c.VacantSeats > 0 {
		c.VacantSeats--
	}
	c.BookedEmployeeIDs = append(c.BookedEmployeeIDs, employeeID)
	return c
}

// Normalize fills the fields a decoded record may be missing, so a ride
// written with a null booker list behaves like an empty one.
func (r *Ride) Normalize() {
	if r.BookedEmployeeIDs == nil {
		r.BookedEmployeeIDs = []string{}
	}
}

// NormalizeEmployeeID trims and upper-cases an employee identifier. Ids are
// opaque; this only makes "emp_a " and "EMP_A" the same employee.
func NormalizeEmployeeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// CloneRides deep-copies a ride list.
func CloneRides(rides []Ride) []Ride {
	out := make([]Ride, len(rides))
	for i, r := range rides {
		out[i] = r.Clone()
	}
	return out
}
