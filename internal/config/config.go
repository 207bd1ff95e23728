// Package config manages environment variables.
//
// It reads variables from the process environment (and an optional `.env`
// file), loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key mapping:
	- Env vars are read using the prefix TODO_
	- The prefix is removed and the rest is lowercased
	- A double underscore separates nesting levels, a single underscore stays
	  part of the key
	  e.g. TODO_SERVER__READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "TODO_"

// Store drivers accepted in store.driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Database      DatabaseConfig       `koanf:"database"`
	SQLite        SQLiteConfig         `koanf:"sqlite"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// StoreConfig selects the backing store of the Todo records.
type StoreConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=postgres sqlite redis memory"`

	// AutoMigrate applies the embedded PostgreSQL migrations on startup.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// It is required only when store.driver is postgres.
//
// ConnMaxLifetime and ConnMaxIdleTime are whole seconds.
type DatabaseConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`
}

// SQLiteConfig holds the database file used when store.driver is sqlite.
// ":memory:" keeps everything in process memory.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". KeyPrefix namespaces every key the store writes.
type RedisConfig struct {
	Address   string `koanf:"address"`
	KeyPrefix string `koanf:"key_prefix"`
}

// defaults are loaded before the environment so every optional key has a
// usable value.
var defaults = map[string]any{
	"primary.env":                 "development",
	"server.port":                 "8080",
	"server.read_timeout":         30,
	"server.write_timeout":        30,
	"server.idle_timeout":         60,
	"server.cors_allowed_origins": []string{"*"},
	"server.rate_limit":           0,
	"store.driver":                DriverPostgres,
	"store.auto_migrate":          true,
	"database.host":               "localhost",
	"database.port":               5432,
	"database.ssl_mode":           "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  300,
	"database.conn_max_idle_time": 60,
	"sqlite.path":                 "todos.db",
	"redis.address":               "localhost:6379",
	"redis.key_prefix":            "todos",

	"observability.logging.level":                         "info",
	"observability.logging.format":                        "json",
	"observability.logging.slow_query_threshold":          "100ms",
	"observability.new_relic.app_log_forwarding_enabled":  true,
	"observability.new_relic.distributed_tracing_enabled": true,
	"observability.new_relic.debug_logging":               false,
	"observability.health_checks.enabled":                 true,
	"observability.health_checks.timeout":                 "5s",
}

// LoadConfig loads configuration from defaults and environment variables,
// validates it, applies observability defaults, and returns the result.
//
// Behavior summary:
//   - Loads defaults, then env vars with prefix TODO_ on top of them
//   - Unmarshals into Config
//   - Sets default observability if missing
//   - Validates struct tags, driver-specific blocks and observability rules
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("could not load config defaults: %w", err)
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are derived, never configured.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// envKeyValue maps TODO_SERVER__READ_TIMEOUT to server.read_timeout.
// Values of list keys are split on commas.
func envKeyValue(s, v string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if listKeys[key] {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, v
}

var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// Validate checks struct tags, then the blocks the selected driver needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Store.Driver {
	case DriverPostgres:
		missing := []string{}
		if c.Database.Host == "" {
			missing = append(missing, "database.host")
		}
		if c.Database.Port == 0 {
			missing = append(missing, "database.port")
		}
		if c.Database.User == "" {
			missing = append(missing, "database.user")
		}
		if c.Database.Name == "" {
			missing = append(missing, "database.name")
		}
		if len(missing) > 0 {
			return fmt.Errorf("config validation failed: postgres store requires %s", strings.Join(missing, ", "))
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("config validation failed: sqlite store requires sqlite.path")
		}
	case DriverRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("config validation failed: redis store requires redis.address")
		}
	}

	return nil
}
