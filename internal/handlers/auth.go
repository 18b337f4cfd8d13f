package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"incognitify/portal/internal/forms"
	"incognitify/portal/internal/middleware"
	"incognitify/portal/internal/upstream"
)

const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

func (h HandlerSet) Login(c *gin.Context) {
	var req forms.Login
	if !h.bindJSON(c, &req, "Invalid input") {
		return
	}

	resp, err := h.upstream.Login(c.Request.Context(), upstream.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	h.forward(c, resp, err, proxyMessages{
		failed:      "Login failed",
		unreachable: "Failed to connect to authentication service",
	})
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req forms.Registration
	if !h.bindJSON(c, &req, "Invalid input") {
		return
	}

	h.log.Info().
		Str("email", req.Email).
		Str("project", h.cfg.Upstream.ProjectName).
		Msg("forwarding registration")

	resp, err := h.upstream.Register(c.Request.Context(), upstream.RegisterRequest{
		DisplayName:   req.DisplayName,
		Email:         req.Email,
		Password:      req.Password,
		ProjectName:   h.cfg.Upstream.ProjectName,
		WorkspaceName: req.Workspace(),
		Language:      forms.LanguageOr(req.Language, "en"),
	})
	h.forward(c, resp, err, proxyMessages{
		failed:      "Registration failed",
		unreachable: "Failed to connect to registration service",
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	resp, err := h.upstream.Me(c.Request.Context(), middleware.AccessToken(c))
	h.forward(c, resp, err, proxyMessages{
		failed:      "Failed to fetch user data",
		unreachable: "Failed to connect to user data service",
	})
}

func (h HandlerSet) RequestPasswordReset(c *gin.Context) {
	var req forms.PasswordReset
	if !h.bindJSON(c, &req, "Email is required") {
		return
	}

	resp, err := h.upstream.RequestPasswordReset(c.Request.Context(), upstream.PasswordResetRequest{
		Email:       req.Email,
		ProjectName: h.cfg.Upstream.ProjectName,
		Language:    forms.LanguageOr(req.Language, "en"),
	})
	h.forward(c, resp, err, proxyMessages{
		failed:      "Password reset request failed",
		unreachable: "Failed to connect to password reset service",
	})
}

// ForgotPassword never reveals whether the address has an account.
func (h HandlerSet) ForgotPassword(c *gin.Context) {
	var req forms.ForgotPassword
	if !h.bindJSON(c, &req, "Invalid input") {
		return
	}

	h.log.Info().Str("email", req.Email).Msg("password reset requested")
	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

func (h HandlerSet) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Verification token is required"})
		return
	}

	resp, err := h.upstream.VerifyEmail(c.Request.Context(), token)
	h.forward(c, resp, err, proxyMessages{
		failed:      "Email verification failed",
		unreachable: "Failed to connect to verification service",
	})
}

func (h HandlerSet) SendVerificationEmail(c *gin.Context) {
	resp, err := h.upstream.SendVerification(c.Request.Context(), middleware.AccessToken(c))
	h.forward(c, resp, err, proxyMessages{
		failed:      "Failed to send verification email",
		unreachable: "Failed to connect to verification service",
	})
}
