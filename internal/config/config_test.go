package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "DATABASE_URI", "SQLITE_PATH", "HISTORY_DRIVER", "WATCH_PORT", "WATCH_BASE_URL", "ALLOWED_ORIGINS", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, HistoryNone, cfg.HistoryDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Hour, cfg.SnapshotTTL)
	assert.Equal(t, 2*time.Hour, cfg.WatchTokenTTL)
	assert.False(t, cfg.WatchEnabled())
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfig_InfersHistoryDriver(t *testing.T) {
	t.Setenv("HISTORY_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SQLITE_PATH", "games.db")
	assert.Equal(t, HistorySQLite, LoadConfig().HistoryDriver)

	t.Setenv("DATABASE_URL", "postgres://localhost/connect4")
	assert.Equal(t, HistoryPostgres, LoadConfig().HistoryDriver)

	t.Setenv("HISTORY_DRIVER", "none")
	assert.Equal(t, HistoryNone, LoadConfig().HistoryDriver)

	t.Setenv("HISTORY_DRIVER", "mongo")
	assert.Equal(t, HistoryPostgres, LoadConfig().HistoryDriver)
}

func TestLoadConfig_Watch(t *testing.T) {
	t.Setenv("WATCH_PORT", "8090")
	t.Setenv("WATCH_BASE_URL", "")
	t.Setenv("ALLOWED_ORIGINS", " http://a.example , ,http://b.example")

	cfg := LoadConfig()
	assert.True(t, cfg.WatchEnabled())
	assert.Equal(t, "http://localhost:8090", cfg.WatchBaseURL)
	assert.Equal(t, []string{"http://localhost:8090", "http://a.example", "http://b.example"}, cfg.AllowedOrigins)
}

func TestGetEnvAsInt_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	assert.Equal(t, 7, GetEnvAsInt("DB_MAX_OPEN_CONNS", 7))

	t.Setenv("SNAPSHOT_TTL_MINUTES", "-3")
	assert.Equal(t, 15*time.Minute, GetEnvAsMinutes("SNAPSHOT_TTL_MINUTES", 15))
}
