package db

import (
	"fmt"
	"time"

	"crowdfunding/internal/config" // Application configuration

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger levels
)

// GormConfig returns the gorm settings shared by every connection
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,                                         // Map driver errors to gorm.ErrDuplicatedKey and friends
		NowFunc:        func() time.Time { return time.Now().UTC() }, // Store timestamps in UTC
		Logger:         logger.Default.LogMode(level),
	}
}

// Open connects to MySQL using the configured DSN
func Open(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsProd {
		level = logger.Error // Only log failed queries in production
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN()), GormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("connect to %s:%s/%s: %w", cfg.DBHost, cfg.DBPort, cfg.DBName, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)     // Cap concurrent connections
	sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns / 2) // Keep half of them warm
	sqlDB.SetConnMaxLifetime(30 * time.Minute)    // Recycle before MySQL's wait_timeout
	logrus.WithField("host", cfg.DBHost).Info("Connected to database")
	return db, nil
}
