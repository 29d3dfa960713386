package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`
	Addr     string `mapstructure:"SERVER_ADDR"`

	DBType      string `mapstructure:"STORAGE_BACKEND"`
	DBDSN       string `mapstructure:"POSTGRES_DSN"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`
	FileEntries string `mapstructure:"ENTRIES_FILE"`
	FileUsers   string `mapstructure:"USERS_FILE"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	StatsCacheTTL time.Duration `mapstructure:"STATS_CACHE_TTL"`

	JWTSecret      string  `mapstructure:"JWT_SECRET"`
	SleepThreshold float64 `mapstructure:"SLEEP_THRESHOLD"`
	Timezone       string  `mapstructure:"TIMEZONE"`
}

var defaults = map[string]interface{}{
	"APP_ENV":         "development",
	"LOG_LEVEL":       "info",
	"LOG_FILE":        "",
	"SERVER_ADDR":     ":8088",
	"STORAGE_BACKEND": "file",
	"POSTGRES_DSN":    "",
	"SQLITE_PATH":     "data/rythm.db",
	"ENTRIES_FILE":    "data/entries.json",
	"USERS_FILE":      "data/users.json",
	"REDIS_ADDR":      "",
	"REDIS_PASSWORD":  "",
	"REDIS_DB":        0,
	"STATS_CACHE_TTL": "10m",
	"JWT_SECRET":      "",
	"SLEEP_THRESHOLD": 7.0,
	"TIMEZONE":        "UTC",
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads .env from the working directory plus the environment, once
// per process.
func Load() *Config {
	once.Do(func() {
		c, err := LoadFrom(".env")
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// LoadFrom reads an env-format file, if it exists, with environment
// variables taking precedence, and validates the result.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "file":
		if c.FileEntries == "" || c.FileUsers == "" {
			return errors.New("File storage requires ENTRIES_FILE and USERS_FILE to be set")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: file, postgres, sqlite (got %q)", c.DBType)
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	// Only development falls back to the local provider.
	if c.Env != "development" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in %s", c.Env)
	}
	if c.SleepThreshold <= 0 || c.SleepThreshold > 24 {
		return errors.New("SLEEP_THRESHOLD must be in (0, 24]")
	}
	if c.StatsCacheTTL < 0 {
		return errors.New("STATS_CACHE_TTL must not be negative")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves Timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
