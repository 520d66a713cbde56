package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndSecrets(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[shop]
timezone = "America/Santiago"
`)
	t.Setenv("BOOKING_JWT_SECRET", "top-secret")
	t.Setenv("BOOKING_DB_PASSWORD", "pg-pass")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "top-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "pg-pass", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=pg-pass")
	assert.True(t, cfg.Notifications.NotifyOnAdminCancel)
	assert.False(t, cfg.Notifications.NotifyOnOwnerCancel)

	catalog, err := cfg.Shop.Catalog()
	require.NoError(t, err)
	assert.Len(t, catalog.Hours(), 9)
	assert.True(t, catalog.HasService("Corte clásico"))
}

func TestLoad_CustomCatalog(t *testing.T) {
	path := writeConfig(t, `
[auth]
jwt_secret = "inline"

[shop]
services = ["Corte", "Barba"]
first_slot = "10:00"
last_slot = "11:00"
slot_step_minutes = 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	catalog, err := cfg.Shop.Catalog()
	require.NoError(t, err)
	assert.Equal(t, []string{"Corte", "Barba"}, catalog.Services())
	assert.Equal(t, []types.TimeString{"10:00", "10:20", "10:40", "11:00"}, catalog.Hours())
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, `[server]
http_port = 8080
`)
	t.Setenv("BOOKING_JWT_SECRET", "")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "bad port", mutate: func(c *Config) { c.Server.HTTPPort = 0 }},
		{name: "bad timezone", mutate: func(c *Config) { c.Shop.Timezone = "Mars/Olympus" }},
		{name: "inverted hours", mutate: func(c *Config) { c.Shop.FirstSlot, c.Shop.LastSlot = "19:00", "15:00" }},
		{name: "mailer without key", mutate: func(c *Config) { c.Mailer.Enabled = true }},
		{name: "events without url", mutate: func(c *Config) { c.Events.Enabled = true }},
		{name: "bad cron", mutate: func(c *Config) {
			c.Reminders.Enabled = true
			c.Reminders.Schedule = "every morning"
		}},
		{name: "cache without ttl", mutate: func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.TTLSeconds = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.JWTSecret = "secret"
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
