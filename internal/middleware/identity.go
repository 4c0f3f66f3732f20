package middleware

import (
	"net"
	"net/http"
	"strings"

	"base64-api/internal/config"
	"base64-api/internal/errors"
	"base64-api/internal/services"
)

// Identity classifies each request as anonymous (by client IP) or
// authenticated (by API key) and stores the result in the request context.
// A present-but-invalid bearer token is rejected here, before any quota is
// consumed.
func Identity(apiKeyService services.APIKeyService, cfg *config.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := &services.Identity{IP: clientIP(r, cfg.TrustProxyHeader)}

			if token := extractBearerToken(r); token != "" {
				apiKey, err := apiKeyService.ValidateAPIKey(r.Context(), token)
				if err != nil {
					if err == errors.ErrInvalidCredentials {
						respondWithError(w, http.StatusUnauthorized, "Invalid API key")
					} else {
						respondWithError(w, http.StatusInternalServerError, "Internal server error")
					}
					return
				}
				identity.APIKey = apiKey
			}

			ctx := services.WithIdentityContext(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, prefix) {
		return auth[len(prefix):]
	}
	return ""
}

// clientIP takes the first hop of X-Forwarded-For, falling back to loopback
// when the header is absent. The header is spoofable behind an untrusted
// proxy; TRUST_PROXY_HEADER=false switches to the connection's remote
// address instead.
func clientIP(r *http.Request, trustProxyHeader bool) string {
	if trustProxyHeader {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			return strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
		return "127.0.0.1"
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
