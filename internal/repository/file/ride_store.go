// Package file persists the ride list as a JSON document on local disk, the
// server-side counterpart of a browser's localStorage entry.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/repository"
)

// RideStore reads and writes one JSON file.
type RideStore struct {
	mu   sync.Mutex
	path string
}

// NewRideStore creates the parent directory of path if needed.
func NewRideStore(path string) (*RideStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &RideStore{path: path}, nil
}

func (s *RideStore) Load(ctx context.Context) ([]entities.Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return repository.DecodeRides(buf)
}

// Save writes to a temp file in the same directory and renames it over the
// target, so a crash mid-write leaves the previous list intact.
func (s *RideStore) Save(ctx context.Context, rides []entities.Ride) error {
	buf, err := repository.EncodeRides(rides)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("write rides: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync rides: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *RideStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

func (s *RideStore) Close() error { return nil }
