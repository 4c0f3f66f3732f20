package controllers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"
)

type HealthCheckResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthCheckHandler checks API health and database connection
func HealthCheckHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthCheckResponse{
			Status: "API is running",
		}

		sqlDB, err := db.DB()
		if err != nil {
			response.Database = "Database connection failed"
			respondWithJSON(w, http.StatusInternalServerError, response)
			return
		}

		if err := sqlDB.Ping(); err != nil {
			response.Database = "Database connection failed"
			respondWithJSON(w, http.StatusInternalServerError, response)
			return
		}

		response.Database = "Database connection is healthy"
		respondWithJSON(w, http.StatusOK, response)
	}
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
