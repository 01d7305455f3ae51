package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_PORT", "ACCESS_TOKEN_TTL", "AUTH_RATE_LIMIT", "IS_PROD", "REDIS_DB"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8000", cfg.AppPort)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.IsProd)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("AUTH_RATE_LIMIT", "5")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("IS_PROD", "true")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.IsProd)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_TTL", "soon")

	assert.Equal(t, 24*time.Hour, LoadConfig().RefreshTokenTTL)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "app", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "crowd"}

	assert.Equal(t, "app:pw@tcp(db:3306)/crowd?parseTime=true&loc=UTC", cfg.DSN())
}
