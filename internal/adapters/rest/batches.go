package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/worker"
)

const errCodeInvalidSong = "INVALID_SONG"

// submitBatchRequest defines what the client sends us
type submitBatchRequest struct {
	Songs []domain.SongRef `json:"songs"`
}

type submitBatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SubmitBatch handles POST /batches
func (h *Handler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	// 1. Decode the Request Body
	var req submitBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Songs == nil {
		writeError(w, http.StatusBadRequest, "songs list is required")
		return
	}

	// 2. Record the batch
	batch, err := h.svc.SubmitBatch(r.Context(), req.Songs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSong) {
			writeErrorWithCode(w, http.StatusBadRequest, err.Error(), errCodeInvalidSong)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// 3. Hand it to the background pool; processing happens off this request.
	if err := h.pool.Submit(worker.Job{BatchID: batch.ID, Songs: batch.Songs}); err != nil {
		writeError(w, http.StatusServiceUnavailable, "batch queue is full, try again later")
		return
	}

	// 4. Accepted: the client polls GET /batches/{id} for the result.
	w.Header().Set("Location", "/batches/"+batch.ID)
	writeJSON(w, http.StatusAccepted, submitBatchResponse{ID: batch.ID, Status: string(batch.Status)})
}

// GetBatch handles GET /batches/{id}
func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := r.PathValue("id")
	if batchID == "" {
		writeError(w, http.StatusBadRequest, "batch id is required")
		return
	}

	batch, err := h.svc.GetBatch(r.Context(), batchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "batch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, batch)
}
