package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideCachesLoaderResult(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	calls := 0
	load := func(dest *[]string) func() error {
		return func() error {
			calls++
			*dest = []string{"a", "b"}
			return nil
		}
	}

	var first []string
	require.NoError(t, Aside(ctx, "k", &first, time.Minute, load(&first)))
	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("k"))

	// Second read comes from the cache.
	var second []string
	require.NoError(t, Aside(ctx, "k", &second, time.Minute, load(&second)))
	assert.Equal(t, []string{"a", "b"}, second)
	assert.Equal(t, 1, calls)
}

func TestAsideDropsCorruptEntries(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("bad", "{not json"))

	var out []int
	err := Aside(ctx, "bad", &out, time.Minute, func() error {
		out = []int{1, 2, 3}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, out)

	// The corrupt entry was replaced with the fresh value.
	raw, err := mr.Get("bad")
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", raw)
}

func TestAsidePropagatesLoaderError(t *testing.T) {
	withMiniredis(t)

	wantErr := errors.New("db down")
	var out []int
	err := Aside(context.Background(), "k", &out, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestAsideWithoutClientCallsLoader(t *testing.T) {
	SetClient(nil)

	calls := 0
	var out string
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(context.Background(), "k", &out, time.Minute, func() error {
			calls++
			out = "loaded"
			return nil
		}))
	}
	assert.Equal(t, "loaded", out)
	assert.Equal(t, 2, calls)
}

func TestInvalidateHelpers(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(UserKey(7), "x"))
	require.NoError(t, mr.Set(PostKey(9), "x"))
	require.NoError(t, mr.Set(FeedKey, "x"))

	InvalidateUser(ctx, 7)
	InvalidatePost(ctx, 9)
	InvalidateFeed(ctx)

	assert.False(t, mr.Exists(UserKey(7)))
	assert.False(t, mr.Exists(PostKey(9)))
	assert.False(t, mr.Exists(FeedKey))
}
