package security

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// SubjectFromToken reads the subject of a JWT without verifying it. The
// upstream owns the signing key; the result is only fit for log correlation.
func SubjectFromToken(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	for _, key := range []string{"sub", "userId", "uid", "id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
