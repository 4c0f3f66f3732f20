package middleware

import (
	"net/http"
	"strconv"

	"base64-api/internal/services"
)

type RateLimiter struct {
	quotaService services.QuotaService
}

func NewRateLimiter(quotaService services.QuotaService) *RateLimiter {
	return &RateLimiter{quotaService: quotaService}
}

// RateLimit enforces the caller's quota before the conversion runs.
// Anonymous callers get a fixed daily window keyed by IP and see
// X-RateLimit-* headers on every response; API keys get a rolling 24h
// window counted from the usage log. Store failures are 500s — the limiter
// never fails open.
func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := services.IdentityFromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if identity.Authenticated() {
			decision, err := rl.quotaService.CheckAPIKey(r.Context(), identity.APIKey)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if !decision.Allowed {
				respondWithError(w, http.StatusTooManyRequests,
					"Rate limit exceeded. Upgrade your plan for more requests.")
				return
			}

			next.ServeHTTP(w, r)
			return
		}

		decision, err := rl.quotaService.CheckIP(r.Context(), identity.IP)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			respondWithError(w, http.StatusTooManyRequests,
				"Demo rate limit exceeded. Sign up for free to get more requests per day.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
