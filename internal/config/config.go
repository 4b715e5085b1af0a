// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types, applies defaults and validates that
// required values are present. The resulting *Config is built once at
// startup and passed by pointer to every constructor; nothing mutates it
// afterwards.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional blocks (observability, pool sizing).
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

/*
	Env vars are read using the prefix EMPLOYER_API_. Keys are lowercased
	with the prefix removed, and "." is the nesting delimiter:

	  EMPLOYER_API_SERVER.PORT             -> server.port
	  EMPLOYER_API_DATABASES.DWH.HOST      -> databases.dwh.host
	  EMPLOYER_API_DATABASES.DWH.TABLES.CV_EMPLOYER_DETAIL=stg.cv_employer_detail
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "EMPLOYER_API_"

// ServiceName identifies this service in logs and APM.
const ServiceName = "employer-api"

// DefaultDatabase is the database environment selected when
// primary.database is not set.
const DefaultDatabase = "dwh"

// Config is the root configuration object for the application.
//
// Databases is the catalog of known database environments. Database is the
// entry selected by Primary.Database and is the one every component uses.
type Config struct {
	Primary       Primary                   `koanf:"primary" validate:"required"`
	Server        ServerConfig              `koanf:"server" validate:"required"`
	Databases     map[string]DatabaseConfig `koanf:"databases" validate:"required,min=1,dive"`
	Observability *ObservabilityConfig      `koanf:"observability"`

	// Database is resolved from Databases during Load.
	Database DatabaseConfig `koanf:"-"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`

	// Database names the entry of Config.Databases to connect to.
	Database string `koanf:"database"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters, pool sizing and
// the catalog of schema-qualified table names known to this environment.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode"`
	MinConns        int    `koanf:"min_conns" validate:"gte=0"`
	MaxConns        int    `koanf:"max_conns" validate:"gte=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"gte=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"gte=0"`

	// Tables maps a logical table key to its schema-qualified name,
	// e.g. cv_employer_detail -> stg.cv_employer_detail.
	Tables map[string]string `koanf:"tables"`
}

// Pool sizing defaults, matching a small service-local pool.
const (
	DefaultMinConns = 1
	DefaultMaxConns = 10
)

// Table returns the schema-qualified name registered under key, falling
// back to key itself when the catalog has no entry.
func (d DatabaseConfig) Table(key string) string {
	if name, ok := d.Tables[key]; ok && name != "" {
		return name
	}
	return key
}

// Load reads configuration from the process environment, unmarshals it,
// applies defaults, validates it and resolves the selected database.
//
// Unlike a fatal-on-error loader, every failure is returned so the caller
// decides how to exit.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal config")
	}

	cfg.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	selected, ok := cfg.Databases[cfg.Primary.Database]
	if !ok {
		names := make([]string, 0, len(cfg.Databases))
		for name := range cfg.Databases {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("database %q is not configured (known: %s)",
			cfg.Primary.Database, strings.Join(names, ", "))
	}
	if selected.MinConns > selected.MaxConns {
		return nil, fmt.Errorf("database %q: min_conns (%d) exceeds max_conns (%d)",
			cfg.Primary.Database, selected.MinConns, selected.MaxConns)
	}
	cfg.Database = selected

	if err := cfg.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Primary.Database == "" {
		c.Primary.Database = DefaultDatabase
	}
	c.Primary.Database = strings.ToLower(c.Primary.Database)

	for name, db := range c.Databases {
		if db.SSLMode == "" {
			db.SSLMode = "disable"
		}
		if db.MaxConns == 0 {
			db.MaxConns = DefaultMaxConns
		}
		if db.MinConns == 0 {
			db.MinConns = DefaultMinConns
		}
		c.Databases[name] = db
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	} else {
		c.Observability.fillDefaults()
	}

	// Service name is fixed; environment always follows primary.env.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env
}
