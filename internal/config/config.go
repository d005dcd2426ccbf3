package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment    string
	Port           string
	AllowedOrigins []string
	FrontendURL    string

	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int

	RedisURL      string
	RedisPassword string
	MoveCacheTTL  time.Duration

	JWTSecret    string
	GameTokenTTL time.Duration

	// Engine
	DefaultDifficulty string
	SearchWidth       int
	NeighborRadius    int
	BotMoveDelay      time.Duration

	SessionIdleTimeout time.Duration
	CleanupInterval    time.Duration

	LogLevel  string
	LogPretty bool
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" && trimmed != frontendURL {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	AppConfig = &Config{
		Environment:    GetEnv("ENVIRONMENT", "development"),
		Port:           port,
		AllowedOrigins: allowedOrigins,
		FrontendURL:    frontendURL,

		// empty disables the game archive
		DatabaseURL:          GetEnv("DATABASE_URL", ""),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),

		RedisURL:      GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		MoveCacheTTL:  GetEnvAsDuration("MOVE_CACHE_TTL_MINUTES", 24*60, time.Minute),

		JWTSecret:    GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		GameTokenTTL: GetEnvAsDuration("GAME_TOKEN_TTL_HOURS", 24, time.Hour),

		DefaultDifficulty: GetEnv("DEFAULT_DIFFICULTY", "medium"),
		SearchWidth:       GetEnvAsInt("SEARCH_WIDTH", 10),
		NeighborRadius:    GetEnvAsInt("NEIGHBOR_RADIUS", 2),
		BotMoveDelay:      GetEnvAsDuration("BOT_MOVE_DELAY_MS", 300, time.Millisecond),

		SessionIdleTimeout: GetEnvAsDuration("SESSION_IDLE_TIMEOUT_MINUTES", 60, time.Minute),
		CleanupInterval:    GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 60, time.Minute),

		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogPretty: GetEnvAsBool("LOG_PRETTY", false),
	}

	return AppConfig
}

// Get returns AppConfig, loading it from the environment on first use.
func Get() *Config {
	if AppConfig == nil {
		return LoadConfig()
	}
	return AppConfig
}

// SetupLogging configures the global zerolog logger.
func (c *Config) SetupLogging() {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
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
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid-integer-env")
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("invalid-bool-env")
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
