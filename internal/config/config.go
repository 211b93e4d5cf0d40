// Package config loads festbot settings from a YAML file overlaid by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/festbot/internal/logging"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// DefaultMaxInputBytes is the input limit when nothing is configured.
const DefaultMaxInputBytes = 4096

// DefaultFile is read when present in the working directory.
const DefaultFile = "festbot.yaml"

// Environment variables overriding the file.
const (
	EnvEndpoint      = "FESTBOT_ENDPOINT"
	EnvAddr          = "FESTBOT_ADDR"
	EnvStore         = "FESTBOT_STORE"
	EnvRedisAddr     = "FESTBOT_REDIS_ADDR"
	EnvRedisPassword = "FESTBOT_REDIS_PASSWORD"
	EnvRedisDB       = "FESTBOT_REDIS_DB"
	EnvCatalogDir    = "FESTBOT_CATALOG_DIR"
	EnvLogLevel      = "FESTBOT_LOG_LEVEL"
	EnvMaxInputBytes = "FESTBOT_MAX_INPUT_BYTES"
	EnvAirtableToken = "AIRTABLE_PAT"
	EnvAirtableBase  = "AIRTABLE_BASE_ID"
	EnvAirtableTable = "AIRTABLE_TABLE_NAME"
)

// Config holds the settings of every festbot command.
type Config struct {
	// Endpoint is the query URL used by the chat client.
	Endpoint string `yaml:"endpoint"`
	// Addr is the listen address of the query service.
	Addr       string `yaml:"addr"`
	Store      string `yaml:"store"`
	CatalogDir string `yaml:"catalog_dir"`
	LogLevel   string `yaml:"log_level"`
	// MaxInputBytes bounds a chat line, a query body's text and an MCP tool query.
	MaxInputBytes int `yaml:"max_input_bytes"`

	QueryTimeout    time.Duration `yaml:"query_timeout"`
	ConfirmDelay    time.Duration `yaml:"confirm_delay"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Redis    Redis    `yaml:"redis"`
	Airtable Airtable `yaml:"airtable"`
}

// Redis configures the shared event store and sync lock.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// Airtable configures the upstream events table.
type Airtable struct {
	Token  string `yaml:"token"`
	BaseID string `yaml:"base_id"`
	Table  string `yaml:"table"`
}

// Enabled reports whether credentials for a sync are present.
func (a Airtable) Enabled() bool {
	return a.Token != "" && a.BaseID != ""
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Endpoint:        "http://localhost:8080/api/query",
		Addr:            ":8080",
		Store:           StoreMemory,
		LogLevel:        "info",
		MaxInputBytes:   DefaultMaxInputBytes,
		QueryTimeout:    30 * time.Second,
		ConfirmDelay:    time.Second,
		ShutdownTimeout: 5 * time.Second,
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "festbot:",
		},
		Airtable: Airtable{
			Table: "Events",
		},
	}
}

// Load reads path over the defaults, then applies the environment.
// A missing file is not an error when path is DefaultFile or empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && path == DefaultFile:
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			// JSON is valid YAML, so both formats are accepted.
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.Store = strings.ToLower(cfg.Store)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvEndpoint, &c.Endpoint)
	set(EnvAddr, &c.Addr)
	set(EnvStore, &c.Store)
	set(EnvRedisAddr, &c.Redis.Addr)
	set(EnvRedisPassword, &c.Redis.Password)
	set(EnvCatalogDir, &c.CatalogDir)
	set(EnvLogLevel, &c.LogLevel)
	set(EnvAirtableToken, &c.Airtable.Token)
	set(EnvAirtableBase, &c.Airtable.BaseID)
	set(EnvAirtableTable, &c.Airtable.Table)

	setInt := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	if err := setInt(EnvRedisDB, &c.Redis.DB); err != nil {
		return err
	}
	return setInt(EnvMaxInputBytes, &c.MaxInputBytes)
}

// Validate checks the settings for values no command can run with.
func (c Config) Validate() error {
	var errs []error
	c.Store = strings.ToLower(c.Store)
	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required when store is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreMemory, StoreRedis))
	}
	if c.QueryTimeout <= 0 {
		errs = append(errs, errors.New("query_timeout must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if c.ConfirmDelay < 0 {
		errs = append(errs, errors.New("confirm_delay cannot be negative"))
	}
	if c.MaxInputBytes <= 0 {
		errs = append(errs, errors.New("max_input_bytes must be positive"))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, errors.New("redis.ttl cannot be negative"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}
