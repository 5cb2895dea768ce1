package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/inkwell/config"
	"github.com/shashiranjanraj/inkwell/pkg/cache"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	config.Set("REDIS_ADDR", "")
	t.Cleanup(config.Reset)

	ctx := context.Background()
	assert.NoError(t, cache.Connect(ctx))
	assert.False(t, cache.Enabled())

	assert.NoError(t, cache.Set(ctx, "books:all", []string{"a"}, time.Minute))

	var out []string
	assert.False(t, cache.Get(ctx, "books:all", &out))
	assert.Nil(t, out)
	assert.NoError(t, cache.Forget(ctx, "books:all"))
	assert.NoError(t, cache.Close())
}

func TestConnectFailureDisablesCache(t *testing.T) {
	config.Set("REDIS_ADDR", "127.0.0.1:1")
	t.Cleanup(config.Reset)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, cache.Connect(ctx))
	assert.False(t, cache.Enabled())
}
