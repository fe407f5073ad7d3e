package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zivahealth/admin-console/internal/upstream"
)

// authMiddleware extracts the caller's bearer token and threads it into the
// request context for the upstream client. With a non-empty secret the token
// is additionally verified as an HMAC-signed JWT before being forwarded;
// without one it is treated as opaque and passed through.
func authMiddleware(logger *slog.Logger, secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		if secret != "" {
			if err := verifyToken(token, secret); err != nil {
				logger.Warn("rejected bearer token", "error", err, "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(upstream.WithToken(r.Context(), token)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func verifyToken(token, secret string) error {
	_, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())
	return err
}
