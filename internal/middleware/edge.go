package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// passthroughPrefixes are never intercepted, whatever the protected list says.
var passthroughPrefixes = []string{"/api", "/static", "/favicon.ico"}

type EdgeOptions struct {
	ProtectedPrefixes []string
	CookieName        string
	LoginPath         string
}

// Edge redirects requests for protected paths that carry no session cookie
// to the login page, keeping the original URL as callbackUrl. It only checks
// that a cookie is present; the page itself resolves the session.
func Edge(opts EdgeOptions) gin.HandlerFunc {
	if opts.CookieName == "" {
		opts.CookieName = "token"
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !IsProtectedPath(path, opts.ProtectedPrefixes) {
			c.Next()
			return
		}

		if token, err := c.Cookie(opts.CookieName); err == nil && token != "" {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, LoginRedirect(opts.LoginPath, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// IsProtectedPath matches whole path segments: "/dashboard" protects
// "/dashboard" and "/dashboard/settings" but not "/dashboards".
func IsProtectedPath(path string, prefixes []string) bool {
	for _, skip := range passthroughPrefixes {
		if path == skip || strings.HasPrefix(path, skip+"/") {
			return false
		}
	}
	for _, prefix := range prefixes {
		prefix = strings.TrimRight(prefix, "/")
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func LoginRedirect(loginPath, callback string) string {
	return loginPath + "?callbackUrl=" + url.QueryEscape(callback)
}
