// Package sqlite persists rides in a SQLite table through gorm, one row per
// ride with the booker list kept as a JSON column.
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/repository"
)

// rideRow is the table layout. Position keeps insertion order, which the
// registry's search results depend on.
type rideRow struct {
	ID                string `gorm:"primaryKey"`
	Position          int    `gorm:"index"`
	OwnerEmployeeID   string `gorm:"index"`
	VehicleType       string
	VehicleNo         string `gorm:"index"`
	VacantSeats       int
	Time              string
	PickupPoint       string
	Destination       string
	BookedEmployeeIDs string
	Date              string `gorm:"index"`
}

func (rideRow) TableName() string { return repository.StorageKey }

type RideStore struct {
	db *gorm.DB
}

// Open connects to the database file at path and migrates the schema.
func Open(path string) (*RideStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewRideStore(db)
}

// NewRideStore migrates the rides table on db.
func NewRideStore(db *gorm.DB) (*RideStore, error) {
	if err := db.AutoMigrate(&rideRow{}); err != nil {
		return nil, fmt.Errorf("migrate rides: %w", err)
	}
	return &RideStore{db: db}, nil
}

func (s *RideStore) Load(ctx context.Context) ([]entities.Ride, error) {
	var rows []rideRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load rides: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rides := make([]entities.Ride, 0, len(rows))
	for _, row := range rows {
		var booked []string
		if row.BookedEmployeeIDs != "" {
			if err := json.Unmarshal([]byte(row.BookedEmployeeIDs), &booked); err != nil {
				return nil, fmt.Errorf("%w: ride %s bookers: %v", repository.ErrCorruptPayload, row.ID, err)
			}
		}
		rides = append(rides, entities.Ride{
			ID:                row.ID,
			OwnerEmployeeID:   row.OwnerEmployeeID,
			VehicleType:       entities.VehicleType(row.VehicleType),
			VehicleNo:         row.VehicleNo,
			VacantSeats:       row.VacantSeats,
			Time:              row.Time,
			PickupPoint:       row.PickupPoint,
			Destination:       row.Destination,
			BookedEmployeeIDs: booked,
			Date:              row.Date,
		})
	}
	if err := repository.CheckRides(rides); err != nil {
		return nil, err
	}
	return rides, nil
}

// Save replaces every row inside one transaction.
func (s *RideStore) Save(ctx context.Context, rides []entities.Ride) error {
	rows := make([]rideRow, 0, len(rides))
	for i, r := range rides {
		booked := r.BookedEmployeeIDs
		if booked == nil {
			booked = []string{}
		}
		buf, err := json.Marshal(booked)
		if err != nil {
			return fmt.Errorf("encode bookers of %s: %w", r.ID, err)
		}
		rows = append(rows, rideRow{
			ID:                r.ID,
			Position:          i,
			OwnerEmployeeID:   r.OwnerEmployeeID,
			VehicleType:       string(r.VehicleType),
			VehicleNo:         r.VehicleNo,
			VacantSeats:       r.VacantSeats,
			Time:              r.Time,
			PickupPoint:       r.PickupPoint,
			Destination:       r.Destination,
			BookedEmployeeIDs: string(buf),
			Date:              r.Date,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&rideRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (s *RideStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&rideRow{}).Error
}

func (s *RideStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
