package handlers

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"incognitify/portal/internal/config"
	"incognitify/portal/internal/jobs"
	"incognitify/portal/internal/upstream"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type upstreamCall struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          map[string]any
}

// fakeUpstream stands in for the external user/billing API.
type fakeUpstream struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []upstreamCall
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{t: t, routes: map[string]http.HandlerFunc{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	call := upstreamCall{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &call.Body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	handler, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		replyJSON(w, http.StatusNotFound, `{"message":"not found"}`)
		return
	}
	handler(w, r)
}

func (f *fakeUpstream) on(method, path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = handler
}

func (f *fakeUpstream) json(method, path string, status int, body string) {
	f.on(method, path, func(w http.ResponseWriter, _ *http.Request) {
		replyJSON(w, status, body)
	})
}

func (f *fakeUpstream) recorded() []upstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upstreamCall(nil), f.calls...)
}

func replyJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func testConfig(baseURL string) *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Upstream: config.UpstreamConfig{
			BaseURL:     baseURL,
			ProjectName: "incognitify",
		},
		Session: config.SessionConfig{
			CookieName: "token",
			MaxAge:     7 * 24 * time.Hour,
			LoginPath:  "/login",
		},
		Billing: config.BillingConfig{StripePublishableKey: "pk_test_123"},
	}
}

type harness struct {
	router   *gin.Engine
	upstream *fakeUpstream
	handlers HandlerSet
}

func newHarness(t *testing.T, deps ...func(*Dependencies)) *harness {
	t.Helper()
	fake := newFakeUpstream(t)
	cfg := testConfig(fake.srv.URL)
	log := zerolog.Nop()

	d := Dependencies{Upstream: upstream.New(cfg.Upstream, log)}
	for _, fn := range deps {
		fn(&d)
	}
	h := NewHandlerSet(log, cfg, d)

	return &harness{router: newRouterFor(h), upstream: fake, handlers: h}
}

func (h *harness) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

// closedUpstream returns a base URL nothing listens on.
func closedUpstream(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

func withProbe(s *jobs.Scheduler) func(*Dependencies) {
	return func(d *Dependencies) { d.Probe = s }
}

func newRouterFor(h HandlerSet) *gin.Engine {
	router := gin.New()
	h.Register(router.Group("/api"))
	h.RegisterPages(router)
	return router
}
