package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8765", cfg.Addr())
	assert.Equal(t, 4, cfg.MaxRoomSize)
	assert.Equal(t, 20, cfg.VotingSeconds)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "promptfall_rounds", cfg.RedisQueue)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PROMPTFALL_PORT", "9000")
	t.Setenv("MAX_ROOM_SIZE", "8")
	t.Setenv("VOTING_SECONDS", "45")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.Addr())
	assert.Equal(t, 8, cfg.MaxRoomSize)
	assert.Equal(t, 45, cfg.VotingSeconds)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("MAX_ROOM_SIZE", "1")

	_, err := Load()
	assert.Error(t, err, "a one-seat room can never start a round")
}
