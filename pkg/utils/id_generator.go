// Package utils provides shared utility functions used across the application.
//
// Go Learning Note — "pkg/" Directory Convention:
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). The time-of-day helpers here
// are useful to any client that needs to render or compare ride times the way
// the server does.
package utils

import (
	"github.com/google/uuid"
)

// IDGenerator produces ride identifiers.
type IDGenerator func() string

// GenerateID creates a new UUID v4 string for use as a ride identifier.
//
// Go Learning Note — "github.com/google/uuid":
// uuid.New() creates a random (v4) UUID like
// "550e8400-e29b-41d4-a716-446655440000". Ids are generated without a central
// counter, so a restarted process never reissues an id that is still stored.
func GenerateID() string {
	return uuid.New().String()
}
