package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"incognitify/portal/internal/i18n"
)

// TranslationBundle serves one (language, namespace) bundle. A bundle that
// failed to load is served empty; callers fall back to key text.
func (h HandlerSet) TranslationBundle(c *gin.Context) {
	lang, ok := i18n.ParseLanguage(c.Param("language"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unknown language"})
		return
	}
	ns, ok := i18n.ParseNamespace(c.Param("namespace"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unknown namespace"})
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, h.catalog.Load(c.Request.Context(), lang, ns))
}

type publicConfigResponse struct {
	ProjectName          string   `json:"projectName"`
	StripePublishableKey string   `json:"stripePublishableKey"`
	Languages            []string `json:"languages"`
	DefaultLanguage      string   `json:"defaultLanguage"`
}

func (h HandlerSet) PublicConfig(c *gin.Context) {
	langs := make([]string, 0, len(i18n.Supported()))
	for _, l := range i18n.Supported() {
		langs = append(langs, string(l))
	}
	c.JSON(http.StatusOK, publicConfigResponse{
		ProjectName:          h.cfg.Upstream.ProjectName,
		StripePublishableKey: h.cfg.Billing.StripePublishableKey,
		Languages:            langs,
		DefaultLanguage:      string(i18n.DefaultLanguage),
	})
}
