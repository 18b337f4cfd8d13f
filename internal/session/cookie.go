package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type CookieOptions struct {
	// Name is the cookie carrying the token; empty means "token".
	Name     string
	Secure   bool
	HTTPOnly bool
	MaxAge   time.Duration
}

// ResponseCookies writes cookies onto an HTTP response.
type ResponseCookies struct {
	w    http.ResponseWriter
	opts CookieOptions
}

func NewResponseCookies(w http.ResponseWriter, opts CookieOptions) *ResponseCookies {
	return &ResponseCookies{w: w, opts: opts}
}

func (c *ResponseCookies) cookieName(name string) string {
	if name == TokenKey && c.opts.Name != "" {
		return c.opts.Name
	}
	return name
}

func (c *ResponseCookies) SetCookie(name, value string, maxAge time.Duration) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.cookieName(name),
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: c.opts.HTTPOnly,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *ResponseCookies) ClearCookie(name string) {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.cookieName(name),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: c.opts.HTTPOnly,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestStorage lives for one request and is seeded from its cookies.
type requestStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

func (s *requestStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *requestStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *requestStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// NewRequestTokenStore builds the server-side view of a browser's session:
// the token comes from the request cookie and writes go back as Set-Cookie.
func NewRequestTokenStore(w http.ResponseWriter, r *http.Request, opts CookieOptions, log zerolog.Logger) *TokenStore {
	if opts.Name == "" {
		opts.Name = TokenKey
	}
	storage := &requestStorage{values: map[string][]byte{}}
	if cookie, err := r.Cookie(opts.Name); err == nil && cookie.Value != "" {
		storage.values[TokenKey] = []byte(cookie.Value)
	}
	return NewTokenStore(storage, NewResponseCookies(w, opts), log).WithMaxAge(opts.MaxAge)
}
