package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"incognitify/portal/internal/security"
)

func Logger(log zerolog.Logger, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}

		if subject, ok := requestSubject(c, cookieName); ok {
			event = event.Str("subject", subject)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", latency).
			Str("request_id", GetRequestID(c)).
			Msg("http request")
	}
}

func requestSubject(c *gin.Context, cookieName string) (string, bool) {
	token, ok := security.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			return "", false
		}
		token = cookie
	}
	return security.SubjectFromToken(token)
}
