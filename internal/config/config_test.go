package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Env)
	assert.Equal(t, "file", c.DBType)
	assert.Equal(t, ":8088", c.Addr)
	assert.Equal(t, 7.0, c.SleepThreshold)
	assert.Equal(t, 10*time.Minute, c.StatsCacheTTL)
	assert.Equal(t, time.UTC, c.Location())
}

func TestLoadFrom_FileAndEnvironment(t *testing.T) {
	path := writeEnv(t, "STORAGE_BACKEND=sqlite\nSQLITE_PATH=/tmp/r.db\nSLEEP_THRESHOLD=7.5\nSTATS_CACHE_TTL=30s\nREDIS_DB=2\n")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DBType)
	assert.Equal(t, "/tmp/r.db", c.SQLitePath)
	assert.Equal(t, 7.5, c.SleepThreshold)
	assert.Equal(t, 30*time.Second, c.StatsCacheTTL)
	assert.Equal(t, 2, c.RedisDB)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadFrom_EnvironmentOverridesFile(t *testing.T) {
	path := writeEnv(t, "APP_ENV=staging\n")
	t.Setenv("APP_ENV", "development")

	c, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "development", c.Env)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Env: "development", DBType: "file", FileEntries: "e.json", FileUsers: "u.json",
			SleepThreshold: 7, Timezone: "UTC",
		}
	}
	ok := valid()
	require.NoError(t, ok.Validate())
	ok.Env, ok.JWTSecret = "staging", "s3cret"
	require.NoError(t, ok.Validate())

	cases := map[string]func(*Config){
		"postgres without dsn": func(c *Config) { c.DBType = "postgres" },
		"unknown backend":      func(c *Config) { c.DBType = "mongo" },
		"unknown env":          func(c *Config) { c.Env = "qa" },
		"production no secret": func(c *Config) { c.Env = "production" },
		"staging no secret":    func(c *Config) { c.Env = "staging" },
		"zero threshold":       func(c *Config) { c.SleepThreshold = 0 },
		"bad timezone":         func(c *Config) { c.Timezone = "Mars/Olympus" },
		"negative ttl":         func(c *Config) { c.StatsCacheTTL = -time.Second },
	}
	for name, mutate := range cases {
		c := valid()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}
