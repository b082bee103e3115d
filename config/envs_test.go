package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("MAZE_TEST_VALUE", "debug")
	assert.Equal(t, "debug", getEnvWithDefault("MAZE_TEST_VALUE", "release"))
	assert.Equal(t, "release", getEnvWithDefault("MAZE_TEST_MISSING", "release"))
}

func TestGetEnvAsIntWithDefault(t *testing.T) {
	t.Run("parses set value", func(t *testing.T) {
		t.Setenv("MAZE_ROOMS", "12")
		assert.Equal(t, 12, getEnvAsIntWithDefault("MAZE_ROOMS", 8))
	})

	t.Run("falls back when unset", func(t *testing.T) {
		assert.Equal(t, 8, getEnvAsIntWithDefault("MAZE_TEST_MISSING", 8))
	})

	t.Run("falls back when malformed", func(t *testing.T) {
		t.Setenv("MAZE_ROUNDS", "ten")
		assert.Equal(t, 10, getEnvAsIntWithDefault("MAZE_ROUNDS", 10))
	})
}

func TestMustGetEnvAsInt(t *testing.T) {
	t.Setenv("REST_PORT", "8080")
	assert.Equal(t, 8080, mustGetEnvAsInt("REST_PORT"))
}

func TestLoad(t *testing.T) {
	for key, value := range map[string]string{
		"HOST_IP":    "127.0.0.1",
		"REST_PORT":  "8080",
		"DB_HOST":    "mongo",
		"DB_PORT":    "27017",
		"DB_USER":    "maze",
		"DB_PASS":    "secret",
		"DB_NAME":    "maze",
		"REDIS_HOST": "redis",
		"REDIS_PORT": "6379",
		"JWT_SECRET": "key",
		"JWT_ISSUER": "maze-runner",
	} {
		t.Setenv(key, value)
	}

	t.Run("defaults", func(t *testing.T) {
		cfg := Load()
		assert.Equal(t, 8080, cfg.RESTPort)
		assert.Equal(t, "release", cfg.GinMode)
		assert.Equal(t, 8, cfg.MazeRooms)
		assert.Equal(t, 4, cfg.MazeExtraWalls)
	})

	t.Run("zero extra walls is kept", func(t *testing.T) {
		t.Setenv("MAZE_EXTRA_WALLS", "0")
		assert.Zero(t, Load().MazeExtraWalls)
	})
}
