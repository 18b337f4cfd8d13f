package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"incognitify/portal/internal/cache"
)

// Cache is the byte cache CachedStore reads through.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachedStore reads through a cache in front of another store. Cache
// failures are logged and never fail the call.
type CachedStore struct {
	next  Store
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// cacheKeyPrefix keeps user ids out of the key space other cache users share.
const cacheKeyPrefix = "prefs:"

func cacheKey(userID string) string {
	return cacheKeyPrefix + userID
}

func NewCachedStore(next Store, c Cache, ttl time.Duration, log zerolog.Logger) *CachedStore {
	return &CachedStore{next: next, cache: c, ttl: ttl, log: log}
}

func (s *CachedStore) Get(ctx context.Context, userID string) (Preferences, error) {
	raw, err := s.cache.Get(ctx, cacheKey(userID))
	switch {
	case err == nil:
		var prefs Preferences
		if jsonErr := json.Unmarshal(raw, &prefs); jsonErr == nil {
			return prefs, nil
		}
		s.log.Warn().Str("user_id", userID).Msg("discarding unreadable cached preferences")
	case !errors.Is(err, cache.ErrMiss):
		s.log.Warn().Err(err).Str("user_id", userID).Msg("preferences cache read failed")
	}

	prefs, err := s.next.Get(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	s.store(ctx, userID, prefs)
	return prefs, nil
}

func (s *CachedStore) Put(ctx context.Context, userID string, prefs Preferences) error {
	if err := s.next.Put(ctx, userID, prefs); err != nil {
		return err
	}
	s.store(ctx, userID, prefs)
	return nil
}

func (s *CachedStore) store(ctx context.Context, userID string, prefs Preferences) {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(userID), raw, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("preferences cache write failed")
	}
}
