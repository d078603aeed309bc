package services

import (
	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/pkg/utils"
)

const (
	// VehicleConflictMinutes is how close two rides of the same vehicle may
	// be before the second is refused. The window is inclusive.
	VehicleConflictMinutes = 60

	// DefaultSearchBufferMinutes is the ride search window when the caller
	// does not choose one.
	DefaultSearchBufferMinutes = 60
)

// SearchOption narrows FindRidesNearTime.
type SearchOption func(*searchParams)

type searchParams struct {
	bufferMinutes int
	vehicleType   entities.VehicleType
}

// WithBuffer sets the search window in minutes on either side of the
// desired time.
func WithBuffer(minutes int) SearchOption {
	return func(p *searchParams) { p.bufferMinutes = minutes }
}

// WithVehicleType restricts results to one vehicle type. The empty type
// means no restriction.
func WithVehicleType(v entities.VehicleType) SearchOption {
	return func(p *searchParams) { p.vehicleType = v }
}

// matchNearTime filters rides for a search. rides is never modified; the
// returned slice is freshly allocated and deep-copied.
func matchNearTime(rides []entities.Ride, today, desiredTime string, p searchParams) []entities.Ride {
	matches := []entities.Ride{}
	if !utils.IsClock(desiredTime) {
		return matches
	}
	for _, r := range rides {
		if r.Date != today {
			continue
		}
		if p.vehicleType != "" && r.VehicleType != p.vehicleType {
			continue
		}
		if r.VacantSeats <= 0 {
			continue
		}
		if utils.WithinMinutes(r.Time, desiredTime, p.bufferMinutes) {
			matches = append(matches, r.Clone())
		}
	}
	return matches
}

// vehicleConflict reports whether any ride in rides uses vehicleNo within
// [time-60, time+60] minutes. Rides of every date are considered and the
// window does not wrap past midnight.
func vehicleConflict(rides []entities.Ride, vehicleNo, time string) bool {
	for _, r := range rides {
		if r.VehicleNo == vehicleNo && utils.WithinMinutes(r.Time, time, VehicleConflictMinutes) {
			return true
		}
	}
	return false
}

func ownerHasRideOn(rides []entities.Ride, owner, date string) bool {
	for _, r := range rides {
		if r.OwnerEmployeeID == owner && r.Date == date {
			return true
		}
	}
	return false
}

func bookedOn(rides []entities.Ride, employeeID, date string) bool {
	for _, r := range rides {
		if r.Date == date && r.HasBooker(employeeID) {
			return true
		}
	}
	return false
}

func indexOfRide(rides []entities.Ride, id string) int {
	for i, r := range rides {
		if r.ID == id {
			return i
		}
	}
	return -1
}
