package main

import (
	"context" // context package is needed for Redis operations

	"crowdfunding/internal/api"    // Custom package for API handlers
	"crowdfunding/internal/config" // Custom package for configuration
	"crowdfunding/internal/db"     // Database connection
	"crowdfunding/internal/events" // Redis event publisher
	"crowdfunding/internal/store"  // Persistence layer

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	setupLogger(cfg)

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := api.NewRouter(api.Deps{
		Store:  store.New(gdb), // Persistence layer
		Tokens: api.TokenIssuer{
			Secret:     cfg.JWTSecret,       // JWT secret key
			AccessTTL:  cfg.AccessTokenTTL,  // Access token lifetime
			RefreshTTL: cfg.RefreshTokenTTL, // Refresh token lifetime
		},
		Events:         events.NewRedisPublisher(redisClient, cfg.EventsChannel), // Domain events
		Redis:          redisClient,                                              // Rate limiter backend
		AuthRateLimit:  cfg.AuthRateLimit,                                        // Auth requests per window
		AuthRateWindow: cfg.AuthRateWindow,                                       // Rate limit window
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.Info("Server running on " + cfg.AppPort)  // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

// setupLogger configures logrus from the environment
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine-readable logs in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
