package middleware

import (
	"net/http"

	"base64-api/internal/services"
)

// AuthMiddleware guards the key-management surface with a session JWT.
func AuthMiddleware(authService services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				respondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := authService.VerifyToken(r.Context(), tokenString)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := services.WithUserContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
