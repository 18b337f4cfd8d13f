// Package guard decides what a protected surface shows: a redirect to login,
// the resend-verification screen, or the protected content itself.
package guard

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"incognitify/portal/internal/i18n"
	"incognitify/portal/internal/session"
)

type State string

const (
	StateLoading     State = "loading"
	StateRedirecting State = "redirecting"
	StateUnverified  State = "unverified"
	StateVerified    State = "verified"
)

type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// Notifier surfaces transient messages, the toast of a browser UI.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// VerificationSender asks the upstream to send a new verification email.
// A 401 answer must be reported as session.ErrUnauthorized.
type VerificationSender interface {
	SendVerificationEmail(ctx context.Context, token string) error
}

type Dependencies struct {
	Tokens    *session.TokenStore
	Resolver  *session.Resolver
	Sender    VerificationSender
	Navigator Navigator
	Notifier  Notifier
	Localizer i18n.Localizer
	LoginPath string
}

// Guard runs once per mount. Every branch out of loading is terminal for
// the mount except that Resend may move unverified to redirecting.
type Guard struct {
	deps Dependencies
	log  zerolog.Logger

	mu    sync.Mutex
	state State
	user  session.User
}

func New(deps Dependencies, log zerolog.Logger) *Guard {
	if deps.LoginPath == "" {
		deps.LoginPath = "/login"
	}
	return &Guard{deps: deps, log: log, state: StateLoading}
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// User is the record fetched during Mount, if any.
func (g *Guard) User() (session.User, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user, g.user.ID != "" || g.user.Email != ""
}

func (g *Guard) Mount(ctx context.Context) State {
	if !g.deps.Tokens.IsAuthenticated(ctx) {
		return g.redirect(ctx)
	}

	user, ok := g.deps.Resolver.FetchCurrentUser(ctx)
	if !ok && !g.deps.Tokens.IsAuthenticated(ctx) {
		// the resolver dropped an expired session
		return g.redirect(ctx)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if ok {
		g.user = user
	}
	if ok && user.EmailVerified {
		g.state = StateVerified
	} else {
		g.state = StateUnverified
	}
	return g.state
}

func (g *Guard) Resend(ctx context.Context) State {
	if g.State() != StateUnverified {
		return g.State()
	}

	token, ok := g.deps.Tokens.GetToken(ctx)
	if !ok {
		return g.redirect(ctx)
	}

	err := g.deps.Sender.SendVerificationEmail(ctx, token)
	switch {
	case errors.Is(err, session.ErrUnauthorized):
		g.log.Info().Msg("verification resend rejected, signing out")
		g.deps.Tokens.RemoveToken(ctx)
		return g.redirect(ctx)
	case err != nil:
		g.log.Error().Err(err).Msg("send verification email failed")
		g.notifier().Error(ctx, g.deps.Localizer.T(ctx, i18n.VerifyEmailSendFailed))
	default:
		g.notifier().Success(ctx, g.deps.Localizer.T(ctx, i18n.VerifyEmailSent))
	}
	return g.State()
}

func (g *Guard) redirect(ctx context.Context) State {
	g.mu.Lock()
	g.state = StateRedirecting
	g.mu.Unlock()
	if g.deps.Navigator != nil {
		g.deps.Navigator.Navigate(ctx, g.deps.LoginPath)
	}
	return StateRedirecting
}

func (g *Guard) notifier() Notifier {
	if g.deps.Notifier == nil {
		return discardNotifier{}
	}
	return g.deps.Notifier
}

type discardNotifier struct{}

func (discardNotifier) Success(context.Context, string) {}
func (discardNotifier) Error(context.Context, string)   {}
