package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"tour-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CronAuth guards the reminder trigger with "Authorization: Bearer <secret>".
// A bcrypt hash takes precedence over the plain secret. With neither
// configured the route is left open.
func CronAuth(config utils.ReminderConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if config.Secret == "" && config.SecretHash == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || !cronSecretMatches(config, token) {
				logger.Warn("Unauthorized cron call",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr),
				)
				utils.ResponseUnauthorized(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func cronSecretMatches(config utils.ReminderConfig, token string) bool {
	if config.SecretHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(config.SecretHash), []byte(token)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(config.Secret), []byte(token)) == 1
}
