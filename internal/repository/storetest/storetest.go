// Package storetest holds the behaviour every repository.RideStore backend
// must share. Backend tests call Run with a constructor.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/repository"
)

// SampleRides returns three rides in a fixed order, one of them booked.
func SampleRides() []entities.Ride {
	a := entities.NewRide("ride-a", "EMP_A", entities.VehicleTypeCar, "KA01AA0001", 2, "09:30", "Gate 1", "Office", "2024-05-01")
	b := entities.NewRide("ride-b", "EMP_B", entities.VehicleTypeBike, "B01", 1, "10:00", "P1", "D1", "2024-05-01")
	c := entities.NewRide("ride-c", "EMP_C", entities.VehicleTypeCar, "KA02", 3, "08:15", "Depot", "Campus", "2024-04-30")
	a = a.Book("EMP_D")
	return []entities.Ride{a, b, c}
}

// Run exercises a fresh store from newStore.
func Run(t *testing.T, newStore func(t *testing.T) repository.RideStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("EmptyLoad", func(t *testing.T) {
		s := newStore(t)
		rides, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, rides)
	})

	t.Run("RoundTripKeepsOrderAndFields", func(t *testing.T) {
		s := newStore(t)
		want := SampleRides()
		require.NoError(t, s.Save(ctx, want))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("SaveReplacesPreviousList", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, SampleRides()))
		shorter := SampleRides()[1:2]
		require.NoError(t, s.Save(ctx, shorter))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "ride-b", got[0].ID)
		assert.Equal(t, []string{}, got[0].BookedEmployeeIDs)
	})

	t.Run("ClearRemovesEverything", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, SampleRides()))
		require.NoError(t, s.Clear(ctx))

		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
