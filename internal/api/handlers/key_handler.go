package handlers

import (
	"encoding/json"
	"net/http"

	"base64-api/internal/errors"
	"base64-api/internal/models"
	"base64-api/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type KeyHandler struct {
	apiKeyService services.APIKeyService
}

func NewKeyHandler(apiKeyService services.APIKeyService) *KeyHandler {
	return &KeyHandler{apiKeyService: apiKeyService}
}

type createKeyRequest struct {
	Name string `json:"name"`
}

type listKeysResponse struct {
	Keys []models.APIKey `json:"keys"`
}

// ListKeys returns the caller's API keys, newest first.
func (h *KeyHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	keys, err := h.apiKeyService.ListAPIKeys(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Error fetching API keys")
		return
	}

	respondWithJSON(w, http.StatusOK, listKeysResponse{Keys: keys})
}

// CreateKey issues a new key. The full secret is returned here and only
// here.
func (h *KeyHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createKeyRequest
	if r.Body != nil {
		// An empty or absent body just means an unnamed key.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	apiKey, err := h.apiKeyService.CreateAPIKey(r.Context(), user.ID, req.Name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]*models.APIKey{"key": apiKey})
}

// DeleteKey revokes a key the caller owns. Keys owned by someone else look
// exactly like keys that do not exist.
func (h *KeyHandler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	idStr := mux.Vars(r)["id"]
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "API key not found")
		return
	}

	if err := h.apiKeyService.RevokeAPIKey(r.Context(), id, user.ID); err != nil {
		if err == errors.ErrNotFound {
			respondWithError(w, http.StatusNotFound, "API key not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete API key")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
