package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	values map[string][]byte
	err    error
}

func newMemStorage() *memStorage {
	return &memStorage{values: map[string][]byte{}}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.values[key], nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type cookieRecord struct {
	value  string
	maxAge time.Duration
}

type fakeMirror struct {
	cookies map[string]cookieRecord
	clears  int
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{cookies: map[string]cookieRecord{}}
}

func (f *fakeMirror) SetCookie(name, value string, maxAge time.Duration) {
	f.cookies[name] = cookieRecord{value: value, maxAge: maxAge}
}

func (f *fakeMirror) ClearCookie(name string) {
	f.clears++
	delete(f.cookies, name)
}

func TestTokenStore_SetWritesStorageAndCookie(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	mirror := newFakeMirror()
	store := NewTokenStore(storage, mirror, zerolog.Nop())

	store.SetToken(ctx, "abc")

	token, ok := store.GetToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", token)
	assert.True(t, store.IsAuthenticated(ctx))
	assert.Equal(t, []byte("abc"), storage.values[TokenKey])
	assert.Equal(t, cookieRecord{value: "abc", maxAge: 7 * 24 * time.Hour}, mirror.cookies[TokenKey])
}

func TestTokenStore_RemoveClearsBoth(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	mirror := newFakeMirror()
	store := NewTokenStore(storage, mirror, zerolog.Nop())

	store.SetToken(ctx, "abc")
	store.RemoveToken(ctx)

	_, ok := store.GetToken(ctx)
	assert.False(t, ok)
	assert.False(t, store.IsAuthenticated(ctx))
	assert.NotContains(t, storage.values, TokenKey)
	assert.NotContains(t, mirror.cookies, TokenKey)
	assert.Equal(t, 1, mirror.clears)
}

func TestTokenStore_WithoutStorageIsInert(t *testing.T) {
	ctx := context.Background()
	mirror := newFakeMirror()
	store := NewTokenStore(nil, mirror, zerolog.Nop())

	store.SetToken(ctx, "abc")
	store.RemoveToken(ctx)

	_, ok := store.GetToken(ctx)
	assert.False(t, ok)
	assert.False(t, store.IsAuthenticated(ctx))
	assert.Empty(t, mirror.cookies)
	assert.Zero(t, mirror.clears)
}

func TestTokenStore_StorageErrorReadsAsSignedOut(t *testing.T) {
	storage := newMemStorage()
	storage.err = errors.New("disk gone")
	store := NewTokenStore(storage, nil, zerolog.Nop())

	assert.False(t, store.IsAuthenticated(context.Background()))
}

func TestTokenStore_SyncMirrorsPersistedToken(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.values[TokenKey] = []byte("persisted")
	mirror := newFakeMirror()

	NewTokenStore(storage, mirror, zerolog.Nop()).Sync(ctx)

	assert.Equal(t, "persisted", mirror.cookies[TokenKey].value)
}

func TestRequestTokenStore_ReadsCookieAndWritesSetCookie(t *testing.T) {
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "from-browser"})
	rec := httptest.NewRecorder()

	store := NewRequestTokenStore(rec, req, CookieOptions{MaxAge: time.Hour}, zerolog.Nop())

	token, ok := store.GetToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "from-browser", token)

	store.RemoveToken(ctx)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestRequestTokenStore_CustomCookieName(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	store := NewRequestTokenStore(rec, req, CookieOptions{Name: "portal_token", MaxAge: time.Hour}, zerolog.Nop())
	store.SetToken(context.Background(), "xyz")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "portal_token", cookies[0].Name)
	assert.Equal(t, "xyz", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestTokenStore_FailedPersistSkipsCookie(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	storage.err = errors.New("disk full")
	mirror := newFakeMirror()
	store := NewTokenStore(storage, mirror, zerolog.Nop())

	store.SetToken(ctx, "abc")

	assert.Empty(t, mirror.cookies)
	assert.False(t, store.IsAuthenticated(ctx))
}
