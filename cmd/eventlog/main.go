package main

import (
	"context"   // Cancellation
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM

	"crowdfunding/internal/config" // Configuration
	"crowdfunding/internal/events" // Event decoding

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Subscribes to the events channel and writes every campaign/donation event to the log
func main() {
	cfg := config.LoadConfig()
	logrus.SetFormatter(&logrus.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	events.Subscribe(ctx, rdb, cfg.EventsChannel, func(e events.Event) {
		logrus.WithFields(logrus.Fields(e.Payload)).Info(e.Type)
	})
	logrus.WithField("channel", cfg.EventsChannel).Info("Listening for events")
	<-ctx.Done()
}
