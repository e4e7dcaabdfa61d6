package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "JWT_EXPIRES_IN", "BCRYPT_COST", "PHOTO_QUEUE", "SEED_ON_START"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "photo.released", cfg.PhotoQueue)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SEED_ON_START", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.SeedOnStart)
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "go duration", value: "90m", expected: 90 * time.Minute},
		{name: "days", value: "7d", expected: 7 * 24 * time.Hour},
		{name: "seconds", value: "3600", expected: time.Hour},
		{name: "garbage falls back", value: "soon", expected: 24 * time.Hour},
		{name: "negative falls back", value: "-1h", expected: 24 * time.Hour},
		{name: "empty falls back", value: "", expected: 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_TTL", tt.value)
			assert.Equal(t, tt.expected, getEnvDuration("TEST_TTL", 24*time.Hour))
		})
	}
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("TEST_INT", "ten")
	assert.Equal(t, 10, getEnvInt("TEST_INT", 10))
}
