package flags

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	err = client.FlushDB(ctx).Err()
	require.NoError(t, err)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = client.FlushDB(ctx).Err()
	_ = client.Close()
}

func TestStore_Upsert(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	flag, err := store.Upsert(ctx, "test.flag", true)
	assert.NoError(t, err)
	require.NotNil(t, flag)
	assert.Equal(t, "test.flag", flag.Key)
	assert.True(t, flag.Value)
	assert.NotZero(t, flag.UpdatedAt)

	retrieved, err := store.Get(ctx, "test.flag")
	assert.NoError(t, err)
	assert.Equal(t, flag.Key, retrieved.Key)
	assert.Equal(t, flag.Value, retrieved.Value)

	// Updating flips the value and advances the timestamp
	time.Sleep(time.Millisecond)
	flag2, err := store.Upsert(ctx, "test.flag", false)
	assert.NoError(t, err)
	assert.True(t, flag2.UpdatedAt.After(flag.UpdatedAt))

	retrieved, err = store.Get(ctx, "test.flag")
	assert.NoError(t, err)
	assert.False(t, retrieved.Value)
}

func TestStore_Get_NotFound(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	flag, err := store.Get(context.Background(), "nonexistent.flag")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, flag)
}

func TestStore_IsEnabled(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	// Unset flag falls back to the provided default
	assert.True(t, store.IsEnabled(ctx, KeySniperEnabled, true))
	assert.False(t, store.IsEnabled(ctx, KeySniperEnabled, false))

	// Once set, the stored value wins over the default
	_, err = store.Upsert(ctx, KeySniperEnabled, false)
	require.NoError(t, err)
	assert.False(t, store.IsEnabled(ctx, KeySniperEnabled, true))

	_, err = store.Upsert(ctx, KeySniperEnabled, true)
	require.NoError(t, err)
	assert.True(t, store.IsEnabled(ctx, KeySniperEnabled, false))
}

func TestStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Upsert(ctx, "test.flag", true)
	require.NoError(t, err)

	err = store.Delete(ctx, "test.flag")
	assert.NoError(t, err)

	_, err = store.Get(ctx, "test.flag")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing flag is not an error
	err = store.Delete(ctx, "nonexistent.flag")
	assert.NoError(t, err)
}

func TestStore_List(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	flagList, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, flagList)

	expected := map[string]bool{
		"sniper.enabled": true,
		"router.orca":    false,
		"fees.dynamic":   true,
	}
	for key, value := range expected {
		_, err := store.Upsert(ctx, key, value)
		require.NoError(t, err)
	}

	flagList, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, flagList, 3)

	got := make(map[string]bool)
	for _, f := range flagList {
		got[f.Key] = f.Value
	}
	assert.Equal(t, expected, got)
}

func TestStore_InvalidKeys(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	invalid := []string{
		"",
		" ",
		"flag with spaces",
		"flag:with:colons",
		"flag\twith\ttabs",
	}

	for _, key := range invalid {
		_, err := store.Upsert(ctx, key, true)
		assert.Error(t, err, "key %q should be rejected", key)
	}

	valid := []string{
		"simple.flag",
		"flag.with.dots",
		"flag-123",
		"a",
	}

	for _, key := range valid {
		_, err := store.Upsert(ctx, key, true)
		assert.NoError(t, err, "key %q should be accepted", key)
	}
}
