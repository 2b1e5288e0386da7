package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	LogLevel  string
	LogFormat string

	HistoryDriver        string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	SQLitePath           string

	RedisURL      string
	RedisPassword string
	SnapshotTTL   time.Duration

	WatchPort      string
	WatchBaseURL   string
	AllowedOrigins []string
	JWTSecret      string
	WatchTokenTTL  time.Duration

	CleanupInterval time.Duration
}

const (
	HistoryPostgres = "postgres"
	HistorySQLite   = "sqlite"
	HistoryNone     = "none"
)

func LoadConfig() *Config {
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	sqlitePath := GetEnv("SQLITE_PATH", "")

	// pick a history store from whatever is configured unless told explicitly
	historyDriver := strings.ToLower(GetEnv("HISTORY_DRIVER", ""))
	switch historyDriver {
	case HistoryPostgres, HistorySQLite, HistoryNone:
	default:
		if historyDriver != "" {
			log.Warn().Str("value", historyDriver).Msg("unknown HISTORY_DRIVER, inferring from environment")
		}
		switch {
		case dbURL != "":
			historyDriver = HistoryPostgres
		case sqlitePath != "":
			historyDriver = HistorySQLite
		default:
			historyDriver = HistoryNone
		}
	}

	watchPort := GetEnv("WATCH_PORT", "")
	watchBaseURL := GetEnv("WATCH_BASE_URL", "")
	if watchBaseURL == "" && watchPort != "" {
		watchBaseURL = "http://localhost:" + watchPort
	}

	allowedOrigins := []string{}
	if watchBaseURL != "" {
		allowedOrigins = append(allowedOrigins, watchBaseURL)
	}
	if extras := GetEnv("ALLOWED_ORIGINS", ""); extras != "" {
		for _, origin := range strings.Split(extras, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	return &Config{
		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogFormat: GetEnv("LOG_FORMAT", "console"),

		HistoryDriver:        historyDriver,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 5),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		SQLitePath:           sqlitePath,

		RedisURL:      GetEnv("REDIS_URL", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		SnapshotTTL:   GetEnvAsMinutes("SNAPSHOT_TTL_MINUTES", 60),

		WatchPort:      watchPort,
		WatchBaseURL:   strings.TrimRight(watchBaseURL, "/"),
		AllowedOrigins: allowedOrigins,
		JWTSecret:      GetEnv("JWT_SECRET", "change-this-watch-secret"),
		WatchTokenTTL:  GetEnvAsMinutes("WATCH_TOKEN_TTL_MINUTES", 120),

		CleanupInterval: GetEnvAsMinutes("CLEANUP_INTERVAL_MINUTES", 10),
	}
}

// WatchEnabled reports whether the spectator server should run.
func (c *Config) WatchEnabled() bool {
	return c.WatchPort != ""
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}
	return value
}

// GetEnvAsMinutes reads a whole number of minutes. Non-positive values fall
// back to the default.
func GetEnvAsMinutes(key string, defaultMinutes int) time.Duration {
	minutes := GetEnvAsInt(key, defaultMinutes)
	if minutes <= 0 {
		minutes = defaultMinutes
	}
	return time.Duration(minutes) * time.Minute
}
