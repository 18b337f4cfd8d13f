package handlers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"incognitify/portal/internal/forms"
	"incognitify/portal/internal/guard"
	"incognitify/portal/internal/i18n"
	"incognitify/portal/internal/middleware"
	"incognitify/portal/internal/session"
	"incognitify/portal/internal/upstream"
	"incognitify/portal/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	languageCookie  = "language"
	defaultCallback = "/dashboard"
)

func parsePages() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type languageLinks struct {
	Label      string
	English    string
	Portuguese string
}

type pageBase struct {
	Lang      string
	PageTitle string
	Languages languageLinks
}

func (h HandlerSet) base(ctx context.Context, loc i18n.Localizer, title i18n.Key) pageBase {
	return pageBase{
		Lang:      string(loc.Language()),
		PageTitle: loc.T(ctx, title),
		Languages: languageLinks{
			Label:      loc.T(ctx, i18n.AuthLanguageLabel),
			English:    loc.T(ctx, i18n.AuthLanguageEnglish),
			Portuguese: loc.T(ctx, i18n.AuthLanguagePortuguese),
		},
	}
}

// localizer picks the page language: ?lang= (remembered in a cookie), then
// the cookie, then Accept-Language.
func (h HandlerSet) localizer(c *gin.Context) i18n.Localizer {
	if lang, ok := i18n.ParseLanguage(c.Query("lang")); ok {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(languageCookie, string(lang), int((365 * 24 * time.Hour).Seconds()), "/", "", h.cfg.Session.Secure, false)
		return h.catalog.Localizer(lang)
	}
	if raw, err := c.Cookie(languageCookie); err == nil {
		if lang, ok := i18n.ParseLanguage(raw); ok {
			return h.catalog.Localizer(lang)
		}
	}
	return h.catalog.Localizer(i18n.DetectFromAcceptLanguage(c.GetHeader("Accept-Language")))
}

func (h HandlerSet) requestTokens(c *gin.Context) *session.TokenStore {
	return session.NewRequestTokenStore(c.Writer, c.Request, session.CookieOptions{
		Name:     h.cfg.Session.CookieName,
		Secure:   h.cfg.Session.Secure,
		HTTPOnly: true,
		MaxAge:   h.cfg.Session.MaxAge,
	}, h.log)
}

func (h HandlerSet) render(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.internalError(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h HandlerSet) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, defaultCallback)
}

type loginView struct {
	pageBase
	Subtitle      string
	EmailLabel    string
	PasswordLabel string
	Submit        string
	Email         string
	CallbackURL   string
	Notice        string
	Error         string
	FieldErrors   map[string]string
}

func (h HandlerSet) loginView(c *gin.Context, loc i18n.Localizer) loginView {
	ctx := c.Request.Context()
	return loginView{
		pageBase:      h.base(ctx, loc, i18n.AuthLoginTitle),
		Subtitle:      loc.T(ctx, i18n.AuthLoginSubtitle),
		EmailLabel:    loc.T(ctx, i18n.AuthEmailLabel),
		PasswordLabel: loc.T(ctx, i18n.AuthPasswordLabel),
		Submit:        loc.T(ctx, i18n.AuthLoginSubmit),
		FieldErrors:   map[string]string{},
	}
}

func (h HandlerSet) LoginPage(c *gin.Context) {
	loc := h.localizer(c)
	view := h.loginView(c, loc)
	view.CallbackURL = c.Query("callbackUrl")
	if c.Query("loggedOut") != "" {
		view.Notice = loc.T(c.Request.Context(), i18n.AuthLoggedOut)
	}
	h.render(c, http.StatusOK, "login.html", view)
}

func (h HandlerSet) LoginSubmit(c *gin.Context) {
	ctx := c.Request.Context()
	loc := h.localizer(c)
	view := h.loginView(c, loc)
	view.CallbackURL = c.PostForm("callbackUrl")

	var form forms.Login
	if err := c.ShouldBind(&form); err != nil {
		view.Error = loc.T(ctx, i18n.AuthLoginFailed)
		h.render(c, http.StatusBadRequest, "login.html", view)
		return
	}
	view.Email = form.Email

	if err := h.validate.Struct(form); err != nil {
		for _, fe := range validation.FieldErrors(err) {
			view.FieldErrors[fe.Field] = fe.Message
		}
		h.render(c, http.StatusBadRequest, "login.html", view)
		return
	}

	result, err := h.upstream.Authenticate(ctx, upstream.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		status := http.StatusUnauthorized
		view.Error = loc.T(ctx, i18n.AuthLoginFailed)
		var netErr *upstream.NetworkError
		var statusErr *session.StatusError
		switch {
		case errors.As(err, &netErr):
			status = http.StatusBadGateway
			view.Error = "Failed to connect to authentication service"
		case errors.Is(err, session.ErrUnauthorized), errors.As(err, &statusErr):
		default:
			h.log.Error().Err(err).Msg("login failed")
			status = http.StatusInternalServerError
		}
		h.render(c, status, "login.html", view)
		return
	}

	token, _ := result.BearerToken()
	h.requestTokens(c).SetToken(ctx, token)
	c.Redirect(http.StatusSeeOther, safeCallback(view.CallbackURL))
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.requestTokens(c).RemoveToken(c.Request.Context())
	c.Redirect(http.StatusSeeOther, h.cfg.Session.LoginPath+"?loggedOut=1")
}

// safeCallback only follows same-origin paths.
func safeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return defaultCallback
	}
	return raw
}

type pageNavigator struct {
	target string
}

func (n *pageNavigator) Navigate(_ context.Context, path string) {
	n.target = path
}

type pageNotices struct {
	successes []string
	errs      []string
}

func (n *pageNotices) Success(_ context.Context, message string) {
	n.successes = append(n.successes, message)
}

func (n *pageNotices) Error(_ context.Context, message string) {
	n.errs = append(n.errs, message)
}

type dashboardView struct {
	pageBase
	Verified     bool
	Welcome      string
	Description  string
	Instructions string
	Resend       string
	Logout       string
	Successes    []string
	Errors       []string
}

func (h HandlerSet) Dashboard(c *gin.Context) {
	h.guarded(c, false)
}

func (h HandlerSet) ResendVerification(c *gin.Context) {
	h.guarded(c, true)
}

func (h HandlerSet) guarded(c *gin.Context, resend bool) {
	ctx := c.Request.Context()
	loc := h.localizer(c)
	tokens := h.requestTokens(c)
	nav := &pageNavigator{}
	notices := &pageNotices{}

	g := guard.New(guard.Dependencies{
		Tokens:    tokens,
		Resolver:  session.NewResolver(tokens, h.upstream, h.log),
		Sender:    h.upstream,
		Navigator: nav,
		Notifier:  notices,
		Localizer: loc,
		LoginPath: h.cfg.Session.LoginPath,
	}, h.log)

	state := g.Mount(ctx)
	if resend {
		state = g.Resend(ctx)
	}

	if state == guard.StateRedirecting {
		callback := defaultCallback
		if c.Request.Method == http.MethodGet {
			callback = c.Request.URL.RequestURI()
		}
		c.Redirect(http.StatusFound, middleware.LoginRedirect(nav.target, callback))
		return
	}

	view := dashboardView{
		Verified:  state == guard.StateVerified,
		Logout:    loc.T(ctx, i18n.DashboardLogout),
		Successes: notices.successes,
		Errors:    notices.errs,
	}
	if view.Verified {
		user, _ := g.User()
		view.pageBase = h.base(ctx, loc, i18n.DashboardTitle)
		view.Welcome = loc.Tf(ctx, i18n.DashboardWelcome, user.Label())
	} else {
		view.pageBase = h.base(ctx, loc, i18n.VerifyEmailTitle)
		view.Description = loc.T(ctx, i18n.VerifyEmailDescription)
		view.Instructions = loc.T(ctx, i18n.VerifyEmailInstructions)
		view.Resend = loc.T(ctx, i18n.VerifyEmailResend)
	}
	h.render(c, http.StatusOK, "dashboard.html", view)
}

type verifyEmailView struct {
	pageBase
	Success   bool
	Message   string
	LoginLink string
}

func (h HandlerSet) VerifyEmailPage(c *gin.Context) {
	ctx := c.Request.Context()
	loc := h.localizer(c)
	view := verifyEmailView{
		pageBase:  h.base(ctx, loc, i18n.VerifyEmailTitle),
		LoginLink: loc.T(ctx, i18n.AuthLoginSubmit),
	}

	token := c.Query("token")
	if token == "" {
		view.Message = loc.T(ctx, i18n.VerifyEmailPageError)
		h.render(c, http.StatusBadRequest, "verify_email.html", view)
		return
	}

	resp, err := h.upstream.VerifyEmail(ctx, token)
	status := http.StatusOK
	switch {
	case err != nil:
		h.log.Error().Err(err).Msg("verify email failed")
		status = http.StatusBadGateway
		view.Message = loc.T(ctx, i18n.VerifyEmailPageError)
	case resp.OK():
		view.Success = true
		view.Message = loc.T(ctx, i18n.VerifyEmailPageSuccess)
	default:
		status = resp.Status
		view.Message = loc.T(ctx, i18n.VerifyEmailPageError)
		if resp.IsJSON() {
			view.Message = resp.Message()
		}
	}
	h.render(c, status, "verify_email.html", view)
}
