package handlers

import (
	"net/http"
	"time"

	"base64-api/internal/services"
)

type UsageHandler struct {
	usageService services.UsageService
}

func NewUsageHandler(usageService services.UsageService) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
	}
}

func (h *UsageHandler) GetUserLogs(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	from, to := getTimeRange(r)

	logs, err := h.usageService.GetUserLogs(r.Context(), user.ID.String(), from, to)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching usage logs")
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

func getTimeRange(r *http.Request) (time.Time, time.Time) {
	now := time.Now()
	from := now.AddDate(0, -1, 0) // Default to last 30 days
	to := now

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		if parsedFrom, err := time.Parse(time.RFC3339, fromStr); err == nil {
			from = parsedFrom
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		if parsedTo, err := time.Parse(time.RFC3339, toStr); err == nil {
			to = parsedTo
		}
	}

	return from, to
}
