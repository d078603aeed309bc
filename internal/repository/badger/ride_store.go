// Package badger persists rides in an embedded badger key-value store. Each
// ride is one msgpack-encoded value under "carpool_rides/<position>", so a
// prefix scan returns the list in insertion order.
package badger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/repository"
)

type RideStore struct {
	prefix []byte
	db     *badger.DB
	owned  bool
}

// Open opens (or creates) a badger database in dir and owns it: Close closes
// the database.
func Open(dir string) (*RideStore, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	s := NewRideStore(db)
	s.owned = true
	return s, nil
}

// NewRideStore wraps an already open database. The caller keeps ownership.
func NewRideStore(db *badger.DB) *RideStore {
	return &RideStore{
		prefix: []byte(repository.StorageKey + "/"),
		db:     db,
	}
}

func (s *RideStore) buildKey(pos int) []byte {
	return []byte(fmt.Sprintf("%s%08d", s.prefix, pos))
}

func (s *RideStore) Load(ctx context.Context) ([]entities.Ride, error) {
	var rides []entities.Ride
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(s.prefix); it.ValidForPrefix(s.prefix); it.Next() {
			var r entities.Ride
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("%w: %v", repository.ErrCorruptPayload, err)
			}
			rides = append(rides, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load rides: %w", err)
	}
	if rides == nil {
		return nil, nil
	}
	if err := repository.CheckRides(rides); err != nil {
		return nil, err
	}
	return rides, nil
}

// Save rewrites the whole prefix in one transaction.
func (s *RideStore) Save(ctx context.Context, rides []entities.Ride) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := s.deleteAll(txn); err != nil {
			return err
		}
		for i, r := range rides {
			buf, err := msgpack.Marshal(r)
			if err != nil {
				return fmt.Errorf("failed to marshal ride %s: %w", r.ID, err)
			}
			if err := txn.Set(s.buildKey(i), buf); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *RideStore) deleteAll(txn *badger.Txn) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek(s.prefix); it.ValidForPrefix(s.prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()
	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *RideStore) Clear(ctx context.Context) error {
	return s.db.DropPrefix(s.prefix)
}

func (s *RideStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
