package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/kv"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory, KeyPrefix: "qkart"}}

	s, err := Open(cfg, logger.Discard())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, config.StorageMemory, s.Driver)
	assert.Nil(t, s.RedisClient())
	assert.NoError(t, s.Health(ctx))

	visitor := kv.Namespace(s.Store, kv.VisitorKey("v1"))
	require.NoError(t, visitor.Set(ctx, "guestCart", "[]"))

	value, found, err := s.Store.Get(ctx, "visitor:v1:guestCart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", value)

	purged, err := s.Housekeep(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "localstorage"}}

	_, err := Open(cfg, logger.Discard())
	assert.ErrorContains(t, err, "unknown storage driver")
}
