package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"incognitify/portal/internal/upstream"
	"incognitify/portal/internal/validation"
)

const nonJSONError = "External API returned non-JSON response"

// proxyMessages are the human-readable messages one route uses for its
// failure shapes.
type proxyMessages struct {
	failed      string
	unreachable string
}

// bindJSON decodes and validates the body into dst. On failure it has
// already written the 400 response.
func (h HandlerSet) bindJSON(c *gin.Context, dst any, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": message,
			"errors":  []validation.FieldError{{Field: "body", Message: "Malformed JSON body"}},
		})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		fields := validation.FieldErrors(err)
		if fields == nil {
			h.internalError(c, err)
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"message": message,
			"errors":  fields,
		})
		return false
	}
	return true
}

// forward relays an upstream answer: JSON passes through with its status,
// anything else becomes a 500, and transport failures a 502.
func (h HandlerSet) forward(c *gin.Context, resp upstream.Response, err error, msgs proxyMessages) {
	if err != nil {
		h.upstreamFailure(c, err, msgs.unreachable)
		return
	}
	if !resp.IsJSON() {
		h.log.Warn().
			Int("status", resp.Status).
			Str("content_type", resp.ContentType).
			Str("body", truncate(string(resp.Body), 100)).
			Msg("upstream returned non-JSON response")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": msgs.failed,
			"error":   nonJSONError,
			"status":  resp.Status,
		})
		return
	}
	c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
}

func (h HandlerSet) upstreamFailure(c *gin.Context, err error, message string) {
	var netErr *upstream.NetworkError
	if errors.As(err, &netErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"message": message,
			"error":   netErr.Err.Error(),
			"cause":   netErr.Cause(),
		})
		return
	}
	h.internalError(c, err)
}

func (h HandlerSet) internalError(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
