package commons

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"carrental/internal/config"
)

func TestLoadConfigFile_OverridesProvidedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
server:
  port: 9090
log:
  level: debug
`)
	assert.NoError(t, os.WriteFile(path, content, 0o600))

	base := &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Log:    config.LogConfig{Level: "info"},
		Booking: config.BookingConfig{
			TxTimeout:        5 * time.Second,
			MaxRetryAttempts: 3,
		},
	}

	cfg, err := LoadConfigFile(path, base)
	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched sections keep their base values.
	assert.Equal(t, 3, cfg.Booking.MaxRetryAttempts)
}

func TestLoadConfigFile_MissingFile(t *testing.T) {
	_, err := LoadConfigFile("/nonexistent/config.yaml", &config.Config{})
	assert.Error(t, err)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("{not yaml:::"), 0o600))

	_, err := LoadConfigFile(path, &config.Config{})
	assert.Error(t, err)
}
