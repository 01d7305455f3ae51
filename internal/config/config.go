package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For token lifetimes and windows

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	DBMaxOpenConns  int           // Connection pool size
	JWTSecret       string        // JWT secret key
	AccessTokenTTL  time.Duration // Lifetime of access tokens
	RefreshTokenTTL time.Duration // Lifetime of refresh tokens
	RedisAddr       string        // Redis server address
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	EventsChannel   string        // Redis pub/sub channel for domain events
	AuthRateLimit   int           // Max auth requests per client per window
	AuthRateWindow  time.Duration // Rate limit window
	LogLevel        string        // Logrus level name
	IsProd          bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", "8000"),                      // Application port
		DBUser:          os.Getenv("DB_USER"),                            // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                        // Database password
		DBHost:          getEnv("DB_HOST", "127.0.0.1"),                  // Database host
		DBPort:          getEnv("DB_PORT", "3306"),                       // Database port
		DBName:          os.Getenv("DB_NAME"),                            // Database name
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 20),                 // Connection pool size
		JWTSecret:       os.Getenv("JWT_SECRET"),                         // JWT secret key
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 60*time.Minute), // Access token lifetime
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 24*time.Hour),  // Refresh token lifetime
		RedisAddr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),          // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                         // Redis password
		RedisDB:         getInt("REDIS_DB", 0),                           // Redis database number
		EventsChannel:   getEnv("EVENTS_CHANNEL", "crowdfunding:events"), // Pub/sub channel
		AuthRateLimit:   getInt("AUTH_RATE_LIMIT", 20),                   // Auth requests per window
		AuthRateWindow:  getDuration("AUTH_RATE_WINDOW", time.Minute),    // Rate limit window
		LogLevel:        getEnv("LOG_LEVEL", "info"),                     // Log level
		IsProd:          os.Getenv("IS_PROD") == "true",                  // Is production environment
	}
}

// DSN builds the MySQL Data Source Name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&loc=UTC"
}

// getEnv returns the variable or def when unset
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt parses an integer variable, falling back to def
func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// getDuration parses a Go duration string such as "15m", falling back to def
func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
