package main

import (
	"context"
	"fmt"

	"github.com/naikprasad87/transport-facility/internal/config"
	"github.com/naikprasad87/transport-facility/internal/logger"
	"github.com/naikprasad87/transport-facility/internal/repository"
	badgerstore "github.com/naikprasad87/transport-facility/internal/repository/badger"
	"github.com/naikprasad87/transport-facility/internal/repository/file"
	"github.com/naikprasad87/transport-facility/internal/repository/memory"
	"github.com/naikprasad87/transport-facility/internal/repository/postgres"
	"github.com/naikprasad87/transport-facility/internal/repository/sqlite"
	"github.com/naikprasad87/transport-facility/internal/services"
	"github.com/naikprasad87/transport-facility/pkg/utils"
)

// openStore returns the ride store selected by cfg.Backend.
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.RideStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewRideStore(), nil
	case config.BackendFile:
		s, err := file.NewRideStore(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendBadger:
		s, err := badgerstore.Open(cfg.BadgerDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendPostgres:
		s, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// registryOptions are the options every command builds its registry with.
func registryOptions(cfg *config.Config) []services.Option {
	return []services.Option{
		services.WithClock(utils.NewLocalDayClock(cfg.Location())),
		services.WithDefaultBuffer(cfg.Registry.SearchBufferMinutes),
		services.WithLogger(logger.New("registry")),
	}
}
