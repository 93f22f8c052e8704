package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/request"
	"github.com/silver-potato-kebab/trade-tracker/internal/api/response"
	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/service"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

// SnapshotHandler handles HTTP requests for saved ledger snapshots.
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// Snapshots handles GET requests to list saved snapshots, newest first.
//
// Endpoint: GET /api/snapshot
// Response: 200 OK with array of model.Snapshot
// Error: 500 Internal Server Error if retrieval fails
func (h *SnapshotHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.snapshotService.ListSnapshots(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToListSnapshots.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}

// CreateSnapshot handles POST requests to save the current grid.
//
// Endpoint: POST /api/snapshot
// Request Body: SaveSnapshotRequest (name)
// Response: 201 Created with model.Snapshot
// Error: 400 Bad Request if the name is missing or too long
// Error: 500 Internal Server Error if the snapshot cannot be stored
func (h *SnapshotHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SaveSnapshotRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSaveSnapshot(req); err != nil {
		respondValidation(w, err)
		return
	}

	snapshot, err := h.snapshotService.SaveSnapshot(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, snapshot)
}

// RestoreSnapshot handles POST requests to replace the grid with a snapshot.
//
// Endpoint: POST /api/snapshot/{uuid}/restore
// Response: 200 OK with model.Snapshot
// Error: 400 Bad Request if the snapshot ID is invalid (validated by middleware)
// Error: 404 Not Found if the snapshot does not exist
// Error: 409 Conflict while an edit session is open
// Error: 500 Internal Server Error if the rows cannot be read
func (h *SnapshotHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "uuid")

	snapshot, err := h.snapshotService.RestoreSnapshot(r.Context(), snapshotID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRestoreSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// DeleteSnapshot handles DELETE requests to remove a snapshot.
//
// Endpoint: DELETE /api/snapshot/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if the snapshot ID is invalid (validated by middleware)
// Error: 404 Not Found if the snapshot does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *SnapshotHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshotID := chi.URLParam(r, "uuid")

	if err := h.snapshotService.DeleteSnapshot(r.Context(), snapshotID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeleteSnapshot.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
