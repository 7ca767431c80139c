package cmd_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shopdispatch/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults with the http store", func(t *testing.T) {
		// Given
		t.Setenv("STORE_BASE_URL", "https://store.example.com/api/")

		// When
		cfg, err := cmd.LoadConfig(t.TempDir())

		// Then
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.HTTPPort)
		assert.Equal(t, cmd.StoreDriverHTTP, cfg.Store.Driver)
		assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
		assert.Equal(t, 5*time.Second, cfg.Polling.ResponseInterval)
		assert.Equal(t, time.Minute, cfg.Polling.StaleAfter)
		assert.Equal(t, cmd.PushDriverNone, cfg.Push.Driver)
		assert.Equal(t, cmd.NotifyDriverLog, cfg.Notify.Driver)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("reads .env from the directory", func(t *testing.T) {
		dir := t.TempDir()
		env := "STORE_BASE_URL=https://store.example.com/\nSHIPMENT_POLL_INTERVAL=3s\nLOG_LEVEL=debug\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
		t.Cleanup(func() {
			for _, key := range []string{"STORE_BASE_URL", "SHIPMENT_POLL_INTERVAL", "LOG_LEVEL"} {
				_ = os.Unsetenv(key)
			}
		})

		cfg, err := cmd.LoadConfig(dir)

		require.NoError(t, err)
		assert.Equal(t, 3*time.Second, cfg.Polling.ShipmentInterval)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("kafka brokers split on commas", func(t *testing.T) {
		t.Setenv("STORE_BASE_URL", "https://store.example.com/")
		t.Setenv("PUSH_DRIVER", "kafka")
		t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

		cfg, err := cmd.LoadConfig(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Push.KafkaBrokers)
	})

	t.Run("driver settings are checked", func(t *testing.T) {
		cases := map[string]struct {
			env     map[string]string
			missing string
		}{
			"http store without url": {
				env:     map[string]string{},
				missing: "STORE_BASE_URL",
			},
			"postgres store without database": {
				env:     map[string]string{"STORE_DRIVER": "postgres"},
				missing: "DB_USER",
			},
			"redis push without url": {
				env:     map[string]string{"STORE_BASE_URL": "https://s/", "PUSH_DRIVER": "redis"},
				missing: "REDIS_URL",
			},
			"rabbitmq sink without url": {
				env:     map[string]string{"STORE_BASE_URL": "https://s/", "NOTIFY_DRIVER": "rabbitmq"},
				missing: "RABBITMQ_URL",
			},
			"unknown push driver": {
				env:     map[string]string{"STORE_BASE_URL": "https://s/", "PUSH_DRIVER": "mqtt"},
				missing: "PUSH_DRIVER",
			},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				for k, v := range tc.env {
					t.Setenv(k, v)
				}

				_, err := cmd.LoadConfig(t.TempDir())

				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.missing)
			})
		}
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := cmd.DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "p@ss", Name: "store", SslMode: "require"}

	assert.Equal(t, "postgres://app:p%40ss@db:5433/store?sslmode=require", cfg.DSN())
}
