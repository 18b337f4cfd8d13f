// Package cli is the terminal client: a one-shot command runner and a small
// REPL over the portal API, with the session kept in local state.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"incognitify/portal/internal/client/portal"
	"incognitify/portal/internal/i18n"
	"incognitify/portal/internal/session"
	"incognitify/portal/internal/validation"
)

const (
	loginPath       = "/login"
	defaultCallback = "/dashboard"
)

var errUsage = errors.New("usage")

type Dependencies struct {
	API         *portal.API
	Tokens      *session.TokenStore
	Preferences *i18n.Preferences
	Catalog     *i18n.Catalog
	// Locale is the locale the runtime reports, e.g. from LANG.
	Locale string
	In     io.Reader
	Out    io.Writer
}

type App struct {
	api      *portal.API
	tokens   *session.TokenStore
	resolver *session.Resolver
	prefs    *i18n.Preferences
	catalog  *i18n.Catalog
	validate *validation.Validator

	in     *bufio.Reader
	out    io.Writer
	nav    *terminalNavigator
	notify terminalNotifier
	lang   i18n.Language
	log    zerolog.Logger
}

func New(ctx context.Context, deps Dependencies, log zerolog.Logger) *App {
	a := &App{
		api:      deps.API,
		tokens:   deps.Tokens,
		resolver: session.NewResolver(deps.Tokens, deps.API, log),
		prefs:    deps.Preferences,
		catalog:  deps.Catalog,
		validate: validation.New(),
		in:       bufio.NewReader(deps.In),
		out:      deps.Out,
		nav:      &terminalNavigator{out: deps.Out},
		notify:   terminalNotifier{out: deps.Out},
		log:      log,
	}
	a.lang = a.prefs.InitialLanguage(ctx, deps.Locale)
	return a
}

// Location is the path the last flow navigated to.
func (a *App) Location() string { return a.nav.location }

func (a *App) Language() i18n.Language { return a.lang }

func (a *App) t(ctx context.Context, key i18n.Key) string {
	return a.catalog.Translate(ctx, a.lang, key).String()
}

// Run executes one command, or starts the REPL when args is empty. It
// returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.Repl(ctx)
		return 0
	}
	return exitCode(a.Exec(ctx, args[0], args[1:]))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}

func (a *App) Repl(ctx context.Context) {
	fmt.Fprintln(a.out, "incognitify portal (type 'help' for commands)")
	for {
		status := ""
		if a.tokens.IsAuthenticated(ctx) {
			status = "*"
		}
		fmt.Fprintf(a.out, "portal%s [%s]> ", status, a.lang)

		line, err := a.in.ReadString('\n')
		fields := strings.Fields(line)
		if len(fields) > 0 {
			if fields[0] == "exit" || fields[0] == "quit" {
				return
			}
			if cmdErr := a.Exec(ctx, fields[0], fields[1:]); cmdErr != nil && !errors.Is(cmdErr, errUsage) {
				a.log.Debug().Err(cmdErr).Str("command", fields[0]).Msg("command failed")
			}
		}
		if err != nil {
			fmt.Fprintln(a.out)
			return
		}
	}
}

func (a *App) Exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.help()
		return nil
	case "login":
		callback := ""
		if len(args) > 0 {
			callback = args[0]
		}
		return a.login(ctx, callback)
	case "signup":
		return a.signup(ctx)
	case "logout":
		a.Logout(ctx)
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "dashboard":
		a.Dashboard(ctx)
		return nil
	case "resend":
		a.Resend(ctx)
		return nil
	case "reset-password":
		return a.resetPassword(ctx)
	case "language":
		return a.language(ctx, args)
	case "t":
		return a.translate(ctx, args)
	default:
		fmt.Fprintf(a.out, "unknown command %q (type 'help')\n", cmd)
		return errUsage
	}
}

func (a *App) help() {
	fmt.Fprint(a.out, `commands:
  login [callback]     sign in
  signup               create an account
  logout               sign out
  whoami               show the signed-in user
  dashboard            open the dashboard
  resend               resend the verification email
  reset-password       request a password reset link
  language [en|pt]     show or change the interface language
  t <namespace> <key>  look up a translation
  exit                 leave the prompt
`)
}

// printFieldErrors writes one line per rejected field.
func (a *App) printFieldErrors(fields []validation.FieldError) {
	for _, fe := range fields {
		fmt.Fprintf(a.out, "  %s: %s\n", fe.Field, fe.Message)
	}
}
