package preferences

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incognitify/portal/internal/cache"
	"incognitify/portal/internal/config"
	"incognitify/portal/internal/database"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "u1", Preferences{Language: "pt"}))
	prefs, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "pt", prefs.Language)
}

func TestGetOrDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	prefs, err := GetOrDefault(ctx, store, "nobody")
	require.NoError(t, err)
	assert.Equal(t, Default(), prefs)
}

type fakeCache struct {
	items   map[string][]byte
	ttls    map[string]time.Duration
	readErr error
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	f.gets++
	if f.readErr != nil {
		return nil, f.readErr
	}
	v, ok := f.items[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.items[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.items, key)
	return nil
}

type countingStore struct {
	*MemoryStore
	gets int
}

func (c *countingStore) Get(ctx context.Context, userID string) (Preferences, error) {
	c.gets++
	return c.MemoryStore.Get(ctx, userID)
}

func TestCachedStore_ReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, backing.Put(ctx, "u1", Preferences{Language: "pt"}))
	c := newFakeCache()
	store := NewCachedStore(backing, c, time.Minute, zerolog.Nop())

	first, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	second, err := store.Get(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, "pt", first.Language)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, backing.gets)
	assert.Equal(t, time.Minute, c.ttls["prefs:u1"])
}

func TestCachedStore_PutRefreshesCache(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	store := NewCachedStore(NewMemoryStore(), c, time.Minute, zerolog.Nop())

	require.NoError(t, store.Put(ctx, "u1", Preferences{Language: "en"}))
	require.NoError(t, store.Put(ctx, "u1", Preferences{Language: "pt"}))

	assert.JSONEq(t, `{"language":"pt"}`, string(c.items["prefs:u1"]))
}

func TestCachedStore_CacheFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryStore()
	require.NoError(t, backing.Put(ctx, "u1", Preferences{Language: "pt"}))
	c := newFakeCache()
	c.readErr = errors.New("redis down")
	store := NewCachedStore(backing, c, time.Minute, zerolog.Nop())

	prefs, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "pt", prefs.Language)
}

func TestCachedStore_KeysDoNotCollideWithOtherEntries(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	c.items["upstream:status"] = []byte(`{"healthy":true}`)
	store := NewCachedStore(NewMemoryStore(), c, time.Minute, zerolog.Nop())

	require.NoError(t, store.Put(ctx, "upstream:status", Preferences{Language: "pt"}))

	assert.JSONEq(t, `{"healthy":true}`, string(c.items["upstream:status"]))
	assert.JSONEq(t, `{"language":"pt"}`, string(c.items["prefs:upstream:status"]))
}

func TestCachedStore_MissingIsNotCached(t *testing.T) {
	ctx := context.Background()
	c := newFakeCache()
	store := NewCachedStore(NewMemoryStore(), c, time.Minute, zerolog.Nop())

	_, err := store.Get(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, c.items)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PORTAL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PORTAL_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, config.PostgresConfig{DSN: dsn, MaxOpen: 2, MaxIdle: 1, ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool))

	store := NewPostgresStore(pool)
	userID := "test-" + time.Now().Format("150405.000000")

	_, err = store.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, userID, Preferences{Language: "pt"}))
	prefs, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "pt", prefs.Language)

	_, err = pool.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID)
	require.NoError(t, err)
}
