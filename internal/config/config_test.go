package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.Booking.TxTimeout)
	assert.Equal(t, 3, cfg.Booking.MaxRetryAttempts)
	assert.True(t, cfg.Monitor.Enabled)
	assert.Equal(t, "@every 5m", cfg.Monitor.Schedule)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("BOOKING_TX_TIMEOUT", "2s")
	t.Setenv("MONITOR_ENABLED", "false")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Booking.TxTimeout)
	assert.False(t, cfg.Monitor.Enabled)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("DB_CONN_MAX_LIFETIME", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}
