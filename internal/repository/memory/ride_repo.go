package memory

import (
	"context"
	"sync"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

// RideStore keeps the ride list in process memory. It is the store used by
// tests and by `serve` with the memory backend, where rides do not need to
// survive a restart.
type RideStore struct {
	mu     sync.RWMutex
	rides  []entities.Ride
	stored bool
	saves  int
}

func NewRideStore() *RideStore {
	return &RideStore{}
}

// NewRideStoreWith returns a store pre-loaded with rides, as if a previous run
// had saved them.
func NewRideStoreWith(rides []entities.Ride) *RideStore {
	return &RideStore{rides: entities.CloneRides(rides), stored: true}
}

func (s *RideStore) Load(ctx context.Context) ([]entities.Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.stored {
		return nil, nil
	}
	return entities.CloneRides(s.rides), nil
}

// Save replaces the stored list with a copy of rides.
//
// Go Learning Note — Defensive Copies:
// The caller keeps using its slice after Save returns. Storing the caller's
// slice directly would let later edits on the caller's side leak into the
// "persisted" state, which a real store would never do.
func (s *RideStore) Save(ctx context.Context, rides []entities.Ride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rides = entities.CloneRides(rides)
	s.stored = true
	s.saves++
	return nil
}

func (s *RideStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rides = nil
	s.stored = false
	s.saves++
	return nil
}

func (s *RideStore) Close() error { return nil }

// Saves reports how many writes the store has seen.
func (s *RideStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
