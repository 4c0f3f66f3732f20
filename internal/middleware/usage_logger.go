package middleware

import (
	"net/http"

	"base64-api/internal/config"
	"base64-api/internal/logger"
	"base64-api/internal/services"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ResponseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *ResponseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

type UsageLogger struct {
	usageService services.UsageService
	cfg          *config.RateLimitConfig
}

func NewUsageLogger(usageService services.UsageService, cfg *config.RateLimitConfig) *UsageLogger {
	return &UsageLogger{
		usageService: usageService,
		cfg:          cfg,
	}
}

// LogUsage appends one usage log row per processed call. The row is a
// best-effort side channel: a failed insert is logged and the response
// already written to the caller stands. Anonymous calls are only recorded
// when LOG_ANONYMOUS_USAGE is set; they are always counted by the IP
// limiter regardless.
func (ul *UsageLogger) LogUsage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &ResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		identity, ok := services.IdentityFromContext(r.Context())
		if !ok {
			return
		}

		if !identity.Authenticated() && !ul.cfg.LogAnonymousUsage {
			return
		}

		var userID string
		var apiKeyID *uuid.UUID
		if identity.Authenticated() {
			userID = identity.APIKey.UserID.String()
			id := identity.APIKey.ID
			apiKeyID = &id
		}

		err := ul.usageService.Record(r.Context(), userID, apiKeyID, r.URL.Path, identity.IP)
		if err != nil {
			logger.Logger.WithFields(logrus.Fields{
				"error":  err,
				"path":   r.URL.Path,
				"status": rw.status,
			}).Error("Failed to record usage")
		}
	})
}
