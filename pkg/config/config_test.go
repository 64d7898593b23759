package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "jwt", cfg.Auth.Provider)
	assert.Equal(t, 30, cfg.Worker.RetentionDays)
	assert.Equal(t, "0 2 * * *", cfg.Worker.RetentionSchedule)
	assert.Equal(t, "@every 1m", cfg.Worker.OutboxSchedule)
	assert.Equal(t, int64(5), cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Redis.CartTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("AUTH_PROVIDER", "firebase")
	t.Setenv("RETENTION_DAYS", "7")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CART_TTL_HOURS", "2")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "firebase", cfg.Auth.Provider)
	assert.Equal(t, 7, cfg.Worker.RetentionDays)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2*time.Hour, cfg.Redis.CartTTL)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestLoad_RechazaValoresInvalidos(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "bodega", Password: "p@ss:word", DBName: "bodega", SSLMode: "disable"}
	assert.Equal(t, "postgres://bodega:p%40ss%3Aword@db:5432/bodega?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
