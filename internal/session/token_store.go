// Package session holds the client-side authentication state: the persisted
// bearer token, its cookie mirror, and resolution of the current user.
package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	TokenKey = "token"

	DefaultTokenMaxAge = 7 * 24 * time.Hour
)

// Storage is a persisted key/value store. Get returns nil, nil for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// CookieMirror exposes the token as a cookie to whatever inspects requests
// before client code runs.
type CookieMirror interface {
	SetCookie(name, value string, maxAge time.Duration)
	ClearCookie(name string)
}

// TokenStore is the single write path for the session token. Every write or
// clear updates storage and cookie in the same call.
type TokenStore struct {
	storage Storage
	cookies CookieMirror
	maxAge  time.Duration
	log     zerolog.Logger
}

// NewTokenStore builds a store. A nil storage means no persisted state is
// reachable (for example while rendering on the server); every operation then
// returns its safe default.
func NewTokenStore(storage Storage, cookies CookieMirror, log zerolog.Logger) *TokenStore {
	return &TokenStore{
		storage: storage,
		cookies: cookies,
		maxAge:  DefaultTokenMaxAge,
		log:     log,
	}
}

// WithMaxAge overrides the cookie lifetime.
func (s *TokenStore) WithMaxAge(maxAge time.Duration) *TokenStore {
	if maxAge > 0 {
		s.maxAge = maxAge
	}
	return s
}

func (s *TokenStore) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.GetToken(ctx)
	return ok
}

func (s *TokenStore) GetToken(ctx context.Context) (string, bool) {
	if s.storage == nil {
		return "", false
	}
	raw, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("read session token failed")
		return "", false
	}
	if len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

func (s *TokenStore) SetToken(ctx context.Context, token string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Set(ctx, TokenKey, []byte(token)); err != nil {
		// no cookie either: the edge must not see a session the client lacks
		s.log.Error().Err(err).Msg("persist session token failed")
		return
	}
	if s.cookies != nil {
		s.cookies.SetCookie(TokenKey, token, s.maxAge)
	}
}

func (s *TokenStore) RemoveToken(ctx context.Context) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, TokenKey); err != nil {
		s.log.Error().Err(err).Msg("delete session token failed")
	}
	if s.cookies != nil {
		s.cookies.ClearCookie(TokenKey)
	}
}

// Sync re-mirrors a persisted token into the cookie mirror, for mirrors that
// do not outlive the process.
func (s *TokenStore) Sync(ctx context.Context) {
	if s.cookies == nil {
		return
	}
	if token, ok := s.GetToken(ctx); ok {
		s.cookies.SetCookie(TokenKey, token, s.maxAge)
	}
}
