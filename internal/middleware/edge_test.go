package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func edgeRouter() *gin.Engine {
	r := gin.New()
	r.Use(Edge(EdgeOptions{ProtectedPrefixes: []string{"/dashboard"}}))
	r.NoRoute(func(c *gin.Context) { c.String(http.StatusOK, "through") })
	return r
}

func TestEdge_RedirectsWithoutCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/settings?tab=billing", nil)

	edgeRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard%2Fsettings%3Ftab%3Dbilling", rec.Header().Get("Location"))
}

func TestEdge_PassesWithCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "abc"})

	edgeRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "through", rec.Body.String())
}

func TestEdge_EmptyCookieCountsAsMissing(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: ""})

	edgeRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestEdge_UnprotectedPassThrough(t *testing.T) {
	for _, path := range []string{"/", "/login", "/dashboards", "/api/auth/me", "/static/app.css"} {
		rec := httptest.NewRecorder()
		edgeRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestIsProtectedPath(t *testing.T) {
	prefixes := []string{"/dashboard", "/account/"}
	cases := map[string]bool{
		"/dashboard":         true,
		"/dashboard/":        true,
		"/dashboard/payment": true,
		"/dashboardx":        false,
		"/account":           true,
		"/account/profile":   true,
		"/api/dashboard":     false,
		"/favicon.ico":       false,
		"/":                  false,
	}
	for path, want := range cases {
		assert.Equal(t, want, IsProtectedPath(path, prefixes), path)
	}
	assert.False(t, IsProtectedPath("/api", []string{"/api"}))
}
