package repository

import (
	"encoding/json"
	"fmt"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/pkg/utils"
)

// EncodeRides serializes the ride list in the JSON array shape every
// document-style backend stores.
func EncodeRides(rides []entities.Ride) ([]byte, error) {
	if rides == nil {
		rides = []entities.Ride{}
	}
	buf, err := json.Marshal(rides)
	if err != nil {
		return nil, fmt.Errorf("encode rides: %w", err)
	}
	return buf, nil
}

// DecodeRides parses a stored JSON array and checks every record.
func DecodeRides(buf []byte) ([]entities.Ride, error) {
	var rides []entities.Ride
	if err := json.Unmarshal(buf, &rides); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if err := CheckRides(rides); err != nil {
		return nil, err
	}
	return rides, nil
}

// CheckRides rejects lists containing records a registry could not have
// written. It also normalizes nil booker lists in place.
func CheckRides(rides []entities.Ride) error {
	seen := make(map[string]bool, len(rides))
	for i := range rides {
		r := &rides[i]
		r.Normalize()
		switch {
		case r.ID == "":
			return fmt.Errorf("%w: ride %d has no id", ErrCorruptPayload, i)
		case seen[r.ID]:
			return fmt.Errorf("%w: duplicate ride id %s", ErrCorruptPayload, r.ID)
		case !r.VehicleType.Valid():
			return fmt.Errorf("%w: ride %s has vehicle type %q", ErrCorruptPayload, r.ID, r.VehicleType)
		case !utils.IsClock(r.Time):
			return fmt.Errorf("%w: ride %s has time %q", ErrCorruptPayload, r.ID, r.Time)
		case r.VacantSeats < 0:
			return fmt.Errorf("%w: ride %s has negative seats", ErrCorruptPayload, r.ID)
		case r.Date == "":
			return fmt.Errorf("%w: ride %s has no date", ErrCorruptPayload, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
