package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		// Given: a config file that only sets the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: every other field has its default
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "9091", conf.SocketPort)
		assert.Equal(t, DriverRedis, conf.Storage.Driver)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 10, conf.Leaderboard.Size)
		assert.Equal(t, "http://localhost:3000", conf.CORS.AllowedOrigin)
	})

	t.Run("File values", func(t *testing.T) {
		path := writeConfig(t, `
storage:
  driver: sqlite
sqlite:
  path: /tmp/games.db
leaderboard:
  size: 3
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, conf.Storage.Driver)
		assert.Equal(t, "/tmp/games.db", conf.SQLite.Path)
		assert.Equal(t, 3, conf.Leaderboard.Size)
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"8000\"\n")
		t.Setenv("HTTP_PORT", "8080")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "8080", conf.HTTPPort)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  driver: mongo\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrUnknownDriver)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

		require.Error(t, err)
	})
}
