package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "atlas-erp", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
}

func TestApplyDefaults_DoesNotOverrideSetValues(t *testing.T) {
	cfg := &Config{}
	cfg.App.Port = "9090"
	cfg.Database.MaxOpenConns = 50
	cfg.Log.Level = "debug"

	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	t.Run("valid defaults pass", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		require.NoError(t, cfg.validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.MaxIdleConns = 100

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires a database password", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.Database.SSLMode = "require"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("production rejects disabled ssl", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDSN_EscapesCredentials(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss:word/1",
		DBName:   "atlas",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss:word/1", "password must be URL-escaped")
}
