package handlers

import (
	"encoding/json"
	"net/http"

	"base64-api/internal/codec"
)

// ConvertHandler performs the Base64 conversion itself. Identity, quota and
// usage logging have already run in the middleware chain by the time it is
// reached.
type ConvertHandler struct{}

func NewConvertHandler() *ConvertHandler {
	return &ConvertHandler{}
}

type convertRequest struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type convertResponse struct {
	Result string `json:"result"`
	Type   string `json:"type"`
}

func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Type == "" || req.Data == "" {
		respondWithError(w, http.StatusBadRequest, "Missing 'type' or 'data' in request body")
		return
	}

	switch req.Type {
	case "encode":
		respondWithJSON(w, http.StatusOK, convertResponse{
			Result: codec.Encode([]byte(req.Data)),
			Type:   "base64",
		})
	case "decode":
		decoded, err := codec.Decode(req.Data)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid base64 input")
			return
		}
		respondWithJSON(w, http.StatusOK, convertResponse{
			Result: string(decoded),
			Type:   "text",
		})
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid type. Use 'encode' or 'decode'")
	}
}
