// Package portal is the terminal client's view of the web server's /api
// surface. It supplies the collaborators the session, guard and i18n
// packages expect.
package portal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"incognitify/portal/internal/config"
	"incognitify/portal/internal/forms"
	"incognitify/portal/internal/i18n"
	"incognitify/portal/internal/session"
	"incognitify/portal/internal/upstream"
	"incognitify/portal/internal/validation"
)

// APIError is a non-success answer carrying the server's message and any
// field errors.
type APIError struct {
	Status  int
	Message string
	Fields  []validation.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

type API struct {
	http *upstream.Client
	log  zerolog.Logger
}

// New builds a client for the server at serverURL. Cookies set through jar
// travel with every request.
func New(serverURL string, jar http.CookieJar, timeout time.Duration, log zerolog.Logger) *API {
	cfg := config.UpstreamConfig{BaseURL: serverURL, Timeout: timeout, ProbePath: "/api/healthz"}
	httpClient := &http.Client{Timeout: timeout, Jar: jar}
	return &API{
		http: upstream.NewWithHTTPClient(cfg, httpClient, log),
		log:  log.With().Str("component", "portal-api").Logger(),
	}
}

func (a *API) Ping(ctx context.Context) error {
	return a.http.Ping(ctx)
}

// Login returns the bearer token for valid credentials. A rejected login is
// *APIError with status 401.
func (a *API) Login(ctx context.Context, form forms.Login) (session.LoginResult, error) {
	resp, err := a.http.Do(ctx, http.MethodPost, "/api/auth/login", "", form)
	if err != nil {
		return session.LoginResult{}, err
	}
	if !resp.OK() {
		return session.LoginResult{}, apiError(resp)
	}
	var result session.LoginResult
	if err := resp.Decode(&result); err != nil {
		return session.LoginResult{}, err
	}
	if _, ok := result.BearerToken(); !ok {
		return session.LoginResult{}, upstream.ErrNoToken
	}
	return result, nil
}

func (a *API) Register(ctx context.Context, reg forms.Registration) error {
	resp, err := a.http.Do(ctx, http.MethodPost, "/api/auth/register", "", reg)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apiError(resp)
	}
	return nil
}

func (a *API) RequestPasswordReset(ctx context.Context, email string, lang i18n.Language) error {
	resp, err := a.http.Do(ctx, http.MethodPost, "/api/auth/request-password-reset", "", forms.PasswordReset{
		Email:    email,
		Language: string(lang),
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apiError(resp)
	}
	return nil
}

// FetchCurrentUser implements session.UserFetcher.
func (a *API) FetchCurrentUser(ctx context.Context, token string) (session.User, error) {
	resp, err := a.http.Do(ctx, http.MethodGet, "/api/auth/me", token, nil)
	if err != nil {
		return session.User{}, err
	}
	if err := upstream.CheckStatus(resp); err != nil {
		return session.User{}, err
	}
	var user session.User
	if err := resp.Decode(&user); err != nil {
		return session.User{}, err
	}
	return user, nil
}

// SendVerificationEmail implements guard.VerificationSender.
func (a *API) SendVerificationEmail(ctx context.Context, token string) error {
	resp, err := a.http.Do(ctx, http.MethodPost, "/api/auth/send-verification-email", token, nil)
	if err != nil {
		return err
	}
	return upstream.CheckStatus(resp)
}

// SaveLanguage implements i18n.PreferenceSaver.
func (a *API) SaveLanguage(ctx context.Context, userID string, lang i18n.Language) error {
	var body forms.Preferences
	body.UserID = userID
	body.Preferences.Language = string(lang)

	resp, err := a.http.Do(ctx, http.MethodPut, "/api/user/preferences", "", body)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apiError(resp)
	}
	return nil
}

var errEmptyBundle = errors.New("server returned an empty bundle")

// Load implements i18n.Source over the bundle endpoint. The server answers
// an empty object when it could not load a bundle itself; that counts as a
// failure so a fallback source gets its turn.
func (a *API) Load(ctx context.Context, lang i18n.Language, ns i18n.Namespace) ([]byte, error) {
	resp, err := a.http.Do(ctx, http.MethodGet, "/api/i18n/"+string(lang)+"/"+string(ns), "", nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apiError(resp)
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 || strings.TrimSpace(string(resp.Body)) == "{}" {
		return nil, errEmptyBundle
	}
	return resp.Body, nil
}

func apiError(resp upstream.Response) error {
	apiErr := &APIError{Status: resp.Status, Message: resp.Message()}
	if resp.IsJSON() {
		var body struct {
			Errors []validation.FieldError `json:"errors"`
		}
		if err := resp.Decode(&body); err == nil {
			apiErr.Fields = body.Errors
		}
	}
	return apiErr
}
