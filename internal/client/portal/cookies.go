package portal

import (
	"net/http"
	"net/url"
	"time"
)

// JarMirror implements session.CookieMirror on an http.CookieJar scoped to
// the server URL, so page requests carry the session cookie.
type JarMirror struct {
	jar  http.CookieJar
	base *url.URL
}

func NewJarMirror(jar http.CookieJar, serverURL string) (*JarMirror, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}
	return &JarMirror{jar: jar, base: base}, nil
}

func (m *JarMirror) SetCookie(name, value string, maxAge time.Duration) {
	m.jar.SetCookies(m.base, []*http.Cookie{{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}})
}

func (m *JarMirror) ClearCookie(name string) {
	m.jar.SetCookies(m.base, []*http.Cookie{{
		Name:   name,
		Path:   "/",
		MaxAge: -1,
	}})
}

