package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "PORT", "STORAGE_BACKEND", "POSTGRES_DSN", "TIMEZONE", "PUBLIC_DIR", "VIEWS_DIR"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "memory", cfg.DBType)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, "views", cfg.ViewsDir)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/exercises")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, "postgres://localhost/exercises", cfg.DBDSN)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "POSTGRES_DSN")

	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "TIMEZONE")
}

func TestValidate(t *testing.T) {
	c := &Config{Env: "development", DBType: "memory", Port: 3000}
	assert.NoError(t, c.Validate())

	c.Env = "qa"
	assert.Error(t, c.Validate())

	c.Env = "staging"
	c.DBType = "file"
	assert.Error(t, c.Validate())

	c.DBType = "cassandra"
	assert.Error(t, c.Validate())

	c.DBType = "sqlite"
	c.SQLitePath = "x.db"
	c.Port = 70000
	assert.Error(t, c.Validate())
}
