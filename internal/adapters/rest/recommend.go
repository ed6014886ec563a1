package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/services"
)

const errCodeBatchNotReady = "BATCH_NOT_READY"

type recommendRequest struct {
	Liked    []domain.SongRef `json:"liked"`
	Disliked []domain.SongRef `json:"disliked"`
}

type recommendResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// Recommend handles POST /batches/{id}/recommendations
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	batchID := r.PathValue("id")
	if batchID == "" {
		writeError(w, http.StatusBadRequest, "batch id is required")
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	history := domain.TasteHistory{Liked: req.Liked, Disliked: req.Disliked}
	suggestions, err := h.svc.Recommend(r.Context(), batchID, history)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "batch not found")
		case errors.Is(err, services.ErrBatchNotReady):
			writeErrorWithCode(w, http.StatusConflict, err.Error(), errCodeBatchNotReady)
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{Suggestions: suggestions})
}
