package i18n

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type recordingSaver struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *recordingSaver) SaveLanguage(_ context.Context, userID string, lang Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, userID+":"+string(lang))
	return s.err
}

func TestPreferences_InitialLanguagePrecedence(t *testing.T) {
	ctx := context.Background()

	t.Run("stored preference wins", func(t *testing.T) {
		storage := newMemStorage()
		storage.data["language"] = []byte("pt")
		prefs := NewPreferences(storage, nil, zerolog.Nop())
		assert.Equal(t, Portuguese, prefs.InitialLanguage(ctx, "en-US"))
	})

	t.Run("browser locale is detected and stored", func(t *testing.T) {
		storage := newMemStorage()
		prefs := NewPreferences(storage, nil, zerolog.Nop())
		assert.Equal(t, Portuguese, prefs.InitialLanguage(ctx, "pt-BR"))
		assert.Equal(t, []byte("pt"), storage.data["language"])
	})

	t.Run("unsupported stored value is ignored", func(t *testing.T) {
		storage := newMemStorage()
		storage.data["language"] = []byte("fr")
		prefs := NewPreferences(storage, nil, zerolog.Nop())
		assert.Equal(t, English, prefs.InitialLanguage(ctx, "de-DE"))
	})
}

func TestPreferences_WithoutStorage(t *testing.T) {
	ctx := context.Background()
	saver := &recordingSaver{}
	prefs := NewPreferences(nil, saver, zerolog.Nop())

	prefs.SetUserID(ctx, "u1")
	prefs.SetLanguage(ctx, Portuguese)
	prefs.Wait()

	_, ok := prefs.GetLanguagePreference(ctx)
	assert.False(t, ok)
	_, ok = prefs.UserID(ctx)
	assert.False(t, ok)
	assert.Empty(t, saver.calls)
	assert.Equal(t, English, prefs.InitialLanguage(ctx, "en"))
}

func TestPreferences_SetLanguagePushesForKnownUser(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	saver := &recordingSaver{}
	prefs := NewPreferences(storage, saver, zerolog.Nop())

	prefs.SetLanguage(ctx, Portuguese)
	prefs.Wait()
	assert.Empty(t, saver.calls, "no push without a user id")

	prefs.SetUserID(ctx, "user-42")
	prefs.SetLanguage(ctx, English)
	prefs.Wait()

	lang, ok := prefs.GetLanguagePreference(ctx)
	require.True(t, ok)
	assert.Equal(t, English, lang)
	assert.Equal(t, []string{"user-42:en"}, saver.calls)
}

func TestPreferences_PushFailureKeepsLocalChoice(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	saver := &recordingSaver{err: errors.New("server down")}
	prefs := NewPreferences(storage, saver, zerolog.Nop())
	prefs.SetUserID(ctx, "u1")

	prefs.SetLanguage(ctx, Portuguese)
	prefs.Wait()

	lang, ok := prefs.GetLanguagePreference(ctx)
	require.True(t, ok)
	assert.Equal(t, Portuguese, lang)
	assert.Len(t, saver.calls, 1)
}

func TestPreferences_ClearUserID(t *testing.T) {
	ctx := context.Background()
	prefs := NewPreferences(newMemStorage(), nil, zerolog.Nop())
	prefs.SetUserID(ctx, "u1")
	prefs.ClearUserID(ctx)
	_, ok := prefs.UserID(ctx)
	assert.False(t, ok)
}
