package repository

import (
	"context"
	"errors"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

// StorageKey names the persisted ride list in every backend that stores it
// as a single document.
const StorageKey = "carpool_rides"

// ErrCorruptPayload means the stored ride list could not be decoded. The
// registry treats it the same as an empty store.
var ErrCorruptPayload = errors.New("stored rides payload is not readable")

// RideStore persists the whole ride list. The registry always reads and
// writes the complete list; there are no per-ride operations.
//
// Load returns (nil, nil) when nothing has been stored yet.
type RideStore interface {
	Load(ctx context.Context) ([]entities.Ride, error)
	Save(ctx context.Context, rides []entities.Ride) error
	Clear(ctx context.Context) error
	Close() error
}
