package handlers

import (
	"context"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"incognitify/portal/internal/config"
	"incognitify/portal/internal/i18n"
	"incognitify/portal/internal/jobs"
	"incognitify/portal/internal/middleware"
	"incognitify/portal/internal/preferences"
	"incognitify/portal/internal/upstream"
	"incognitify/portal/internal/validation"
)

// Pinger is a backing service health can check. Leave it nil when the
// service is not configured.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Upstream    *upstream.Client
	Preferences preferences.Store
	Catalog     *i18n.Catalog
	Probe       *jobs.Scheduler
	Database    Pinger
	Cache       Pinger
	Objects     Pinger
}

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	upstream    *upstream.Client
	preferences preferences.Store
	catalog     *i18n.Catalog
	probe       *jobs.Scheduler
	database    Pinger
	cache       Pinger
	objects     Pinger
	validate    *validation.Validator
	pages       *template.Template
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	prefs := deps.Preferences
	if prefs == nil {
		prefs = preferences.NewMemoryStore()
	}
	catalog := deps.Catalog
	if catalog == nil {
		catalog = i18n.NewCatalog(i18n.NewEmbeddedSource(), log)
	}

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		upstream:    deps.Upstream,
		preferences: prefs,
		catalog:     catalog,
		probe:       deps.Probe,
		database:    deps.Database,
		cache:       deps.Cache,
		objects:     deps.Objects,
		validate:    validation.New(),
		pages:       parsePages(),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	router.GET("/config", h.PublicConfig)
	router.GET("/i18n/:language/:namespace", h.TranslationBundle)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/register", h.RegisterUser)
		auth.POST("/request-password-reset", h.RequestPasswordReset)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.GET("/verify-email", h.VerifyEmail)

		auth.GET("/me", middleware.RequireBearer("Unauthorized"), h.Me)
		auth.POST("/send-verification-email", middleware.RequireBearer("Unauthorized"), h.SendVerificationEmail)
	}

	router.POST("/workspaces/:workspaceId/payment-methods/attach",
		middleware.RequireBearer("Unauthorized - Missing or invalid authorization header"),
		h.AttachPaymentMethod,
	)

	user := router.Group("/user")
	user.GET("/preferences", h.GetPreferences)
	user.PUT("/preferences", h.PutPreferences)
}

// RegisterPages mounts the HTML surfaces outside /api.
func (h HandlerSet) RegisterPages(router gin.IRouter) {
	router.GET("/", h.Home)
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.LoginSubmit)
	router.POST("/logout", h.Logout)
	router.GET("/auth/verify-email", h.VerifyEmailPage)
	router.GET("/dashboard", h.Dashboard)
	router.POST("/dashboard/resend-verification", h.ResendVerification)
}
