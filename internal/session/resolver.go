package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrUnauthorized marks a 401 answer from an authenticated collaborator call.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-success answer other than 401.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Message)
}

// User is fetched fresh on every call and never persisted.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Name          string `json:"name,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
	WorkspaceID   string `json:"workspaceId,omitempty"`
}

// Label is the best human-readable name for the user.
func (u User) Label() string {
	switch {
	case u.DisplayName != "":
		return u.DisplayName
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

// UserFetcher calls the /me collaborator with a bearer token.
type UserFetcher interface {
	FetchCurrentUser(ctx context.Context, token string) (User, error)
}

type Resolver struct {
	tokens *TokenStore
	users  UserFetcher
	log    zerolog.Logger
}

func NewResolver(tokens *TokenStore, users UserFetcher, log zerolog.Logger) *Resolver {
	return &Resolver{tokens: tokens, users: users, log: log}
}

// FetchCurrentUser returns the signed-in user. Without a token no call is
// made. A 401 clears the session; any other failure leaves it in place.
func (r *Resolver) FetchCurrentUser(ctx context.Context) (User, bool) {
	token, ok := r.tokens.GetToken(ctx)
	if !ok {
		return User{}, false
	}

	user, err := r.users.FetchCurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			r.log.Info().Msg("session rejected by upstream, signing out")
			r.tokens.RemoveToken(ctx)
			return User{}, false
		}
		r.log.Error().Err(err).Msg("fetch current user failed")
		return User{}, false
	}
	return user, true
}

func (r *Resolver) IsEmailVerified(ctx context.Context) bool {
	user, ok := r.FetchCurrentUser(ctx)
	return ok && user.EmailVerified
}

// LoginResult is the upstream answer to a successful login. Deployments
// differ in the token field name.
type LoginResult struct {
	Token       string `json:"token,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	User        *User  `json:"user,omitempty"`
}

func (r LoginResult) BearerToken() (string, bool) {
	if r.Token != "" {
		return r.Token, true
	}
	if r.AccessToken != "" {
		return r.AccessToken, true
	}
	return "", false
}
