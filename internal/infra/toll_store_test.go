package infra

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridecost/internal/config"
	"ridecost/internal/modules/toll"
)

func TestNewTollStore(t *testing.T) {
	ctx := context.Background()

	store, err := NewTollStore(ctx, config.TollCacheConfig{Backend: config.TollBackendMemory}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &toll.MemoryStore{}, store)

	mr := miniredis.RunT(t)
	rdb := NewRedis(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })
	store, err = NewTollStore(ctx, config.TollCacheConfig{Backend: config.TollBackendRedis}, nil, rdb)
	require.NoError(t, err)
	assert.IsType(t, &toll.RedisStore{}, store)

	_, err = NewTollStore(ctx, config.TollCacheConfig{Backend: config.TollBackendRedis}, nil, nil)
	assert.Error(t, err)
	_, err = NewTollStore(ctx, config.TollCacheConfig{Backend: config.TollBackendPostgres}, nil, nil)
	assert.Error(t, err)
	_, err = NewTollStore(ctx, config.TollCacheConfig{Backend: "sqlite"}, nil, nil)
	assert.Error(t, err)
}
