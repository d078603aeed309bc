package services

import (
	"errors"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

// ErrorKind classifies why a registry operation was refused.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindStorage    ErrorKind = "storage"
)

// Sentinels for errors.Is checks against RegistryError values.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflicts with an existing ride or booking")
	ErrNotFound   = errors.New("ride not found")
	ErrStorage    = errors.New("ride storage failed")
)

// Messages shown to employees. They are part of the API: clients match on
// them to decide which form field to highlight.
const (
	MsgEmployeeIDRequired = "Employee ID is required."
	MsgVehicleNoRequired  = "Vehicle No is required."
	MsgPlacesRequired     = "Pickup and Destination are required."
	MsgTimeFormat         = "Time must be HH:mm."
	MsgSeatsMin           = "Vacant seats must be >= 1."
	MsgVehicleType        = "Vehicle type must be Bike or Car."
	MsgOwnerRideExists    = "This employee already added a ride for today."
	MsgVehicleConflict    = "A ride with this vehicle number already exists at this time (±60 minutes)."
	MsgRideNotFound       = "Ride not found."
	MsgRideNotToday       = "Ride is not for today."
	MsgOwnerCannotBook    = "Owner cannot book their own ride."
	MsgAlreadyBookedRide  = "You have already booked this ride."
	MsgNoVacantSeats      = "No vacant seats available."
	MsgAlreadyBookedToday = "You have already booked a ride for today."
	MsgStorageUnavailable = "Rides could not be saved. Please try again."
)

// RegistryError carries the kind and the employee-facing message of a
// refused operation.
//
// Go Learning Note — Custom Error Types with errors.Is:
// Implementing Is(target error) lets callers write
// errors.Is(err, services.ErrConflict) without caring about the message text,
// while Error() still returns the exact message for display. Unwrap exposes the
// underlying cause (for example a disk error) to errors.As.
type RegistryError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RegistryError) Error() string { return e.Message }

func (e *RegistryError) Unwrap() error { return e.Err }

func (e *RegistryError) Is(target error) bool {
	switch e.Kind {
	case KindValidation:
		return target == ErrValidation
	case KindConflict:
		return target == ErrConflict
	case KindNotFound:
		return target == ErrNotFound
	case KindStorage:
		return target == ErrStorage
	}
	return false
}

// Result is what every mutating registry operation returns. Failures are
// values, not panics: callers check Success.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Kind    ErrorKind      `json:"-"`
	Ride    *entities.Ride `json:"ride,omitempty"`

	cause error
}

// Err returns nil on success and a *RegistryError otherwise.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return &RegistryError{Kind: r.Kind, Message: r.Message, Err: r.cause}
}

func ok(ride *entities.Ride) Result {
	return Result{Success: true, Ride: ride}
}

func fail(kind ErrorKind, msg string) Result {
	return Result{Kind: kind, Message: msg}
}

func storageFailure(err error) Result {
	return Result{Kind: KindStorage, Message: MsgStorageUnavailable, cause: err}
}
