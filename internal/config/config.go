// Package config centralizes all application configuration into typed structs.
//
// Go Learning Note — Layered Configuration:
// NewDefaultConfig gives every setting a working value, so the server starts
// with no config file at all. Load then overlays a YAML or JSON file and
// finally CARPOOL_* environment variables using koanf. Each layer only
// overrides the keys it sets; everything else keeps the default.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override config keys.
// CARPOOL_STORE__BACKEND=badger sets store.backend.
const EnvPrefix = "CARPOOL_"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendBadger   = "badger"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config is the top-level configuration container.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Registry RegistryConfig `json:"registry"`
	Store    StoreConfig    `json:"store"`
	Logging  LoggingConfig  `json:"logging"`
	Metrics  MetricsConfig  `json:"metrics"`
	MQTT     MQTTConfig     `json:"mqtt"`
}

// ServerConfig holds HTTP server settings.
//
// Go Learning Note — time.Duration:
// Go uses time.Duration (an int64 of nanoseconds) instead of raw integers for
// timeouts. koanf decodes strings like "10s" straight into a Duration.
type ServerConfig struct {
	Port           string        `json:"port"`
	ReadTimeout    time.Duration `json:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout"`
	AllowedOrigins []string      `json:"allowed_origins"`
}

// RegistryConfig tunes ride matching.
type RegistryConfig struct {
	// SearchBufferMinutes is the default window for ride search when a
	// request does not name one.
	SearchBufferMinutes int `json:"search_buffer_minutes"`
	// TimeZone decides which calendar day is "today". Empty means the
	// process's local zone.
	TimeZone string `json:"time_zone"`
}

// StoreConfig selects where the ride list is persisted.
type StoreConfig struct {
	Backend     string `json:"backend"`
	FilePath    string `json:"file_path"`
	BadgerDir   string `json:"badger_dir"`
	SQLitePath  string `json:"sqlite_path"`
	PostgresDSN string `json:"postgres_dsn"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// MQTTConfig configures the optional retained ride-list publisher.
type MQTTConfig struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			AllowedOrigins: []string{"http://localhost:4200"},
		},
		Registry: RegistryConfig{
			SearchBufferMinutes: 60,
		},
		Store: StoreConfig{
			Backend:    BackendFile,
			FilePath:   "data/carpool_rides.json",
			BadgerDir:  "data/badger",
			SQLitePath: "data/carpool.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "transport-facility",
			Topic:    "carpool/rides",
			QoS:      1,
		},
	}
}

// Load builds the configuration from defaults, the optional file at path and
// the environment. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Registry.SearchBufferMinutes <= 0 {
		return fmt.Errorf("registry.search_buffer_minutes must be > 0, got %d", c.Registry.SearchBufferMinutes)
	}
	if c.Registry.TimeZone != "" {
		if _, err := time.LoadLocation(c.Registry.TimeZone); err != nil {
			return fmt.Errorf("registry.time_zone: %w", err)
		}
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.FilePath == "" {
			return fmt.Errorf("store.file_path is required for the file backend")
		}
	case BackendBadger:
		if c.Store.BadgerDir == "" {
			return fmt.Errorf("store.badger_dir is required for the badger backend")
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.MQTT.Enabled && (c.MQTT.Broker == "" || c.MQTT.Topic == "") {
		return fmt.Errorf("mqtt.broker and mqtt.topic are required when mqtt is enabled")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}
	return nil
}

// Location resolves Registry.TimeZone. Validate has already vetted the name.
func (c *Config) Location() *time.Location {
	if c.Registry.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Registry.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
