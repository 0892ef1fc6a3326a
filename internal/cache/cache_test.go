package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/sourcer/internal/candidate"
)

func sampleResults() []candidate.Raw {
	return []candidate.Raw{
		{"profile_url": "https://example.com/a", "name": "A", "skills": []any{"go", "python"}},
		{"profile_url": "https://example.com/b", "name": "B"},
	}
}

func TestNormalizeQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "senior go engineer berlin", NormalizeQuery("  Senior   Go\tEngineer\nBERLIN "))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestMemoryTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(0, 0)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, m.Put(ctx, "Go Engineer", sampleResults()))

	now = now.Add(23 * time.Hour)
	got, ok, err := m.Get(ctx, "go   engineer")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleResults(), got)

	now = now.Add(time.Hour)
	_, ok, err = m.Get(ctx, "go engineer")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryMiss(t *testing.T) {
	t.Parallel()

	_, ok, err := NewMemory(time.Minute, 0).Get(context.Background(), "nothing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryEvictsOldestWrite(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Hour, 2)
	m.now = func() time.Time { now = now.Add(time.Second); return now }

	ctx := context.Background()
	require.NoError(t, m.Put(ctx, "first", nil))
	require.NoError(t, m.Put(ctx, "second", nil))
	require.NoError(t, m.Put(ctx, "third", nil))

	assert.Equal(t, 2, m.Len())
	_, ok, _ := m.Get(ctx, "first")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "third")
	assert.True(t, ok)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	t.Parallel()

	m := NewMemory(time.Hour, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Put(ctx, "shared", sampleResults())
			_, _, _ = m.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	got, ok, err := m.Get(ctx, "shared")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestRedisRoundTripAndExpiry(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedis(client, 0, "")
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "go engineer")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "Go Engineer", sampleResults()))

	got, ok, err := c.Get(ctx, " go  ENGINEER ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleResults(), got)

	srv.FastForward(DefaultTTL + time.Second)

	_, ok, err = c.Get(ctx, "go engineer")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSurvivesClientRestart(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	ctx := context.Background()

	first := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	require.NoError(t, NewRedis(first, time.Hour, "test:").Put(ctx, "query", sampleResults()))
	require.NoError(t, first.Close())

	second := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = second.Close() })

	got, ok, err := NewRedis(second, time.Hour, "test:").Get(ctx, "query")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestRedisReportsBackendErrors(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedis(client, time.Hour, "")
	srv.Close()

	_, ok, err := c.Get(context.Background(), "query")
	assert.Error(t, err)
	assert.False(t, ok)
}
