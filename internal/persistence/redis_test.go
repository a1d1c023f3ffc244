package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheBehavesAsMiss(t *testing.T) {
	ctx := context.Background()

	var nilWrapper *Redis
	for _, cache := range []*Redis{nilWrapper, {}} {
		var dest []string
		hit, err := cache.FetchJSON(ctx, "any-key", &dest)
		require.NoError(t, err)
		assert.False(t, hit)

		assert.NoError(t, cache.CacheJSON(ctx, "any-key", []string{"x"}, time.Minute))
		assert.Error(t, cache.Ping(ctx))
	}
}

func TestDisabledCacheCloseIsSafe(t *testing.T) {
	var cache *Redis
	cache.Close()
	(&Redis{}).Close()
}
