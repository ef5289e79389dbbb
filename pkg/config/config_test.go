package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "warehouse-ops", cfg.App.Name)
	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.Equal(t, []int{6, 10, 12, 20}, cfg.Receiving.BoxSuggestions)
	assert.False(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.False(t, cfg.App.AutoMigrate)
	assert.Empty(t, cfg.App.SeedFile)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RECEIVING_BOX_SUGGESTIONS", "4,8")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("SEED_FILE", "directorio.csv")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []int{4, 8}, cfg.Receiving.BoxSuggestions)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.App.AutoMigrate)
	assert.Equal(t, "directorio.csv", cfg.App.SeedFile)
}

func TestLoad_Invalidos(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("sugerencias", func(t *testing.T) {
		t.Setenv("RECEIVING_BOX_SUGGESTIONS", "6,0")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("pool", func(t *testing.T) {
		t.Setenv("DB_MIN_CONNS", "10")
		t.Setenv("DB_MAX_CONNS", "5")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "ops", Password: "p@ss", DBName: "warehouse_ops", SSLMode: "disable"}
	assert.Equal(t, "postgres://ops:p%40ss@db:5432/warehouse_ops?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
