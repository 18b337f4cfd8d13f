package cli

import (
	"context"
	"fmt"

	"incognitify/portal/internal/guard"
	"incognitify/portal/internal/i18n"
)

func (a *App) newGuard() *guard.Guard {
	return guard.New(guard.Dependencies{
		Tokens:    a.tokens,
		Resolver:  a.resolver,
		Sender:    a.api,
		Navigator: a.nav,
		Notifier:  a.notify,
		Localizer: a.catalog.Localizer(a.lang),
		LoginPath: loginPath,
	}, a.log)
}

// Dashboard mounts the guard and prints the screen for the state it lands in.
func (a *App) Dashboard(ctx context.Context) guard.State {
	fmt.Fprintln(a.out, a.t(ctx, i18n.DashboardLoading))
	g := a.newGuard()
	state := g.Mount(ctx)
	a.show(ctx, g, state)
	return state
}

// Resend mounts the guard and, when the address is still unverified, asks
// for a new verification email.
func (a *App) Resend(ctx context.Context) guard.State {
	g := a.newGuard()
	state := g.Mount(ctx)
	if state != guard.StateUnverified {
		a.show(ctx, g, state)
		return state
	}
	fmt.Fprintln(a.out, a.t(ctx, i18n.VerifyEmailSending))
	return g.Resend(ctx)
}

func (a *App) show(ctx context.Context, g *guard.Guard, state guard.State) {
	switch state {
	case guard.StateVerified:
		user, _ := g.User()
		loc := a.catalog.Localizer(a.lang)
		fmt.Fprintf(a.out, "%s\n%s\n", loc.T(ctx, i18n.DashboardTitle), loc.Tf(ctx, i18n.DashboardWelcome, user.Label()))
	case guard.StateUnverified:
		fmt.Fprintf(a.out, "%s\n%s\n%s\n", a.t(ctx, i18n.VerifyEmailTitle),
			a.t(ctx, i18n.VerifyEmailDescription), a.t(ctx, i18n.VerifyEmailInstructions))
		fmt.Fprintf(a.out, "  resend: %s\n", a.t(ctx, i18n.VerifyEmailResend))
	}
}
