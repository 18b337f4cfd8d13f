package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"incognitify/portal/internal/client/portal"
	"incognitify/portal/internal/forms"
	"incognitify/portal/internal/i18n"
	"incognitify/portal/internal/validation"
)

func (a *App) login(ctx context.Context, callback string) error {
	fmt.Fprintln(a.out, a.t(ctx, i18n.AuthLoginTitle))
	email, err := Prompt(a.in, a.out, a.t(ctx, i18n.AuthEmailLabel))
	if err != nil {
		return err
	}
	password, err := PromptPassword(a.in, a.out, a.t(ctx, i18n.AuthPasswordLabel))
	if err != nil {
		return err
	}
	return a.SubmitLogin(ctx, forms.Login{Email: email, Password: password}, callback)
}

// SubmitLogin validates the form, signs in, stores the session and navigates
// to callback (or the dashboard).
func (a *App) SubmitLogin(ctx context.Context, form forms.Login, callback string) error {
	if err := a.validate.Struct(form); err != nil {
		a.printFieldErrors(validation.FieldErrors(err))
		return err
	}

	result, err := a.api.Login(ctx, form)
	if err != nil {
		var apiErr *portal.APIError
		if errors.As(err, &apiErr) {
			a.printFieldErrors(apiErr.Fields)
		}
		a.log.Debug().Err(err).Msg("login failed")
		a.notify.Error(ctx, a.t(ctx, i18n.AuthLoginFailed))
		return err
	}

	token, _ := result.BearerToken()
	a.tokens.SetToken(ctx, token)

	if result.User != nil && result.User.ID != "" {
		a.prefs.SetUserID(ctx, result.User.ID)
	} else if user, ok := a.resolver.FetchCurrentUser(ctx); ok {
		a.prefs.SetUserID(ctx, user.ID)
	}

	a.nav.Navigate(ctx, safeCallback(callback))
	return nil
}

func safeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return defaultCallback
	}
	return raw
}

func (a *App) signup(ctx context.Context) error {
	fmt.Fprintln(a.out, a.t(ctx, i18n.RegisterTitle))
	var form forms.Signup
	var err error
	if form.DisplayName, err = Prompt(a.in, a.out, a.t(ctx, i18n.RegisterDisplayName)); err != nil {
		return err
	}
	if form.Email, err = Prompt(a.in, a.out, a.t(ctx, i18n.AuthEmailLabel)); err != nil {
		return err
	}
	if form.Password, err = PromptPassword(a.in, a.out, a.t(ctx, i18n.AuthPasswordLabel)); err != nil {
		return err
	}
	if form.ConfirmPassword, err = PromptPassword(a.in, a.out, a.t(ctx, i18n.RegisterConfirm)); err != nil {
		return err
	}
	return a.SubmitSignup(ctx, form)
}

// SubmitSignup validates locally and only then registers. Success navigates
// to the login screen.
func (a *App) SubmitSignup(ctx context.Context, form forms.Signup) error {
	if err := a.validate.Struct(form); err != nil {
		a.printFieldErrors(validation.FieldErrors(err))
		return err
	}

	if err := a.api.Register(ctx, form.Registration(string(a.lang))); err != nil {
		message := a.t(ctx, i18n.RegisterFailed)
		var apiErr *portal.APIError
		if errors.As(err, &apiErr) {
			a.printFieldErrors(apiErr.Fields)
			if apiErr.Message != "" {
				message = apiErr.Message
			}
		}
		a.log.Debug().Err(err).Msg("registration failed")
		a.notify.Error(ctx, message)
		return err
	}

	a.notify.Success(ctx, a.t(ctx, i18n.RegisterAccountCreated))
	a.nav.Navigate(ctx, loginPath)
	return nil
}

// Logout clears the session and every cached bundle.
func (a *App) Logout(ctx context.Context) {
	a.tokens.RemoveToken(ctx)
	a.prefs.ClearUserID(ctx)
	a.catalog.Reset()
	a.notify.Success(ctx, a.t(ctx, i18n.AuthLoggedOut))
	a.nav.Navigate(ctx, loginPath)
}

func (a *App) whoami(ctx context.Context) error {
	user, ok := a.resolver.FetchCurrentUser(ctx)
	if !ok {
		fmt.Fprintln(a.out, "not signed in")
		return errNotSignedIn
	}
	fmt.Fprintf(a.out, "%s <%s>\n", user.Label(), user.Email)
	fmt.Fprintf(a.out, "  id: %s\n  verified: %t\n", user.ID, user.EmailVerified)
	if user.WorkspaceID != "" {
		fmt.Fprintf(a.out, "  workspace: %s\n", user.WorkspaceID)
	}
	return nil
}

var errNotSignedIn = errors.New("not signed in")

func (a *App) resetPassword(ctx context.Context) error {
	fmt.Fprintln(a.out, a.t(ctx, i18n.RequestResetTitle))
	email, err := Prompt(a.in, a.out, a.t(ctx, i18n.AuthEmailLabel))
	if err != nil {
		return err
	}
	if err := a.api.RequestPasswordReset(ctx, email, a.lang); err != nil {
		var apiErr *portal.APIError
		if errors.As(err, &apiErr) {
			a.printFieldErrors(apiErr.Fields)
		}
		a.notify.Error(ctx, a.t(ctx, i18n.RequestResetError))
		return err
	}
	a.notify.Success(ctx, a.t(ctx, i18n.RequestResetSent))
	return nil
}
