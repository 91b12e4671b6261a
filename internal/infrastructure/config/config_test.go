package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"WMS_APP_NAME":                      os.Getenv("WMS_APP_NAME"),
		"WMS_APP_ENV":                       os.Getenv("WMS_APP_ENV"),
		"WMS_APP_PORT":                      os.Getenv("WMS_APP_PORT"),
		"WMS_DATABASE_HOST":                 os.Getenv("WMS_DATABASE_HOST"),
		"WMS_DATABASE_PORT":                 os.Getenv("WMS_DATABASE_PORT"),
		"WMS_DATABASE_USER":                 os.Getenv("WMS_DATABASE_USER"),
		"WMS_DATABASE_PASSWORD":             os.Getenv("WMS_DATABASE_PASSWORD"),
		"WMS_DATABASE_DBNAME":               os.Getenv("WMS_DATABASE_DBNAME"),
		"WMS_DATABASE_SSLMODE":              os.Getenv("WMS_DATABASE_SSLMODE"),
		"WMS_DATABASE_MAX_IDLE_CONNS":       os.Getenv("WMS_DATABASE_MAX_IDLE_CONNS"),
		"WMS_BOOKING_DEFAULT_TOLERANCE_PCT": os.Getenv("WMS_BOOKING_DEFAULT_TOLERANCE_PCT"),
		"WMS_BOOKING_UNIT_WEIGHT_KG":        os.Getenv("WMS_BOOKING_UNIT_WEIGHT_KG"),
		"WMS_SCALE_SETTLE_DELAY":            os.Getenv("WMS_SCALE_SETTLE_DELAY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "wms-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "wms", cfg.Database.DBName)
		assert.Equal(t, 0.2, cfg.Booking.UnitWeightKg)
		assert.Equal(t, 0, cfg.Booking.DefaultTolerancePct)
		assert.Equal(t, "wms:inventory-updated", cfg.Booking.InventoryChannel)
		assert.InDelta(t, 0.5, cfg.Scale.GrossMinKg, 0.001)
		assert.InDelta(t, 25.0, cfg.Scale.GrossMaxKg, 0.001)
	})

	t.Run("loads values from environment variables with WMS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("WMS_APP_NAME", "test-app")
		os.Setenv("WMS_APP_PORT", "9000")
		os.Setenv("WMS_DATABASE_HOST", "testdb.local")
		os.Setenv("WMS_DATABASE_PORT", "5433")
		os.Setenv("WMS_BOOKING_DEFAULT_TOLERANCE_PCT", "15")
		os.Setenv("WMS_BOOKING_UNIT_WEIGHT_KG", "0.35")
		os.Setenv("WMS_SCALE_SETTLE_DELAY", "500ms")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 15, cfg.Booking.DefaultTolerancePct)
		assert.InDelta(t, 0.35, cfg.Booking.UnitWeightKg, 0.001)
		assert.Equal(t, "500ms", cfg.Scale.SettleDelay.String())
	})

	t.Run("rejects a tolerance outside the allowed band", func(t *testing.T) {
		clearEnv()
		os.Setenv("WMS_BOOKING_DEFAULT_TOLERANCE_PCT", "60")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default_tolerance_pct")
	})

	t.Run("rejects more idle than open connections", func(t *testing.T) {
		clearEnv()
		os.Setenv("WMS_DATABASE_MAX_IDLE_CONNS", "100")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("requires a password and ssl in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("WMS_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")

		os.Setenv("WMS_DATABASE_PASSWORD", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		os.Setenv("WMS_DATABASE_SSLMODE", "require")
		_, err = Load()
		require.NoError(t, err)
	})
}

func TestDatabaseDSN(t *testing.T) {
	t.Run("escapes special characters in credentials", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "wms",
			Password: "p@ss/word",
			DBName:   "wms",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "p%40ss%2Fword")
		assert.Contains(t, dsn, "sslmode=disable")
	})
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
