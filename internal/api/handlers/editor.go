package handlers

import (
	"errors"
	"net/http"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/request"
	"github.com/silver-potato-kebab/trade-tracker/internal/api/response"
	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/editor"
	"github.com/silver-potato-kebab/trade-tracker/internal/service"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

// EditorHandler exposes the inline cell editor over HTTP.
// The client resolves clicks to a region, row and column and sends the full
// field text on every keystroke.
type EditorHandler struct {
	ledgerService *service.LedgerService
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(ledgerService *service.LedgerService) *EditorHandler {
	return &EditorHandler{
		ledgerService: ledgerService,
	}
}

// OpenEditorResponse reports whether a double-click opened a session.
type OpenEditorResponse struct {
	Opened  bool            `json:"opened"`
	Session *editor.Session `json:"session,omitempty"`
}

// DiscardResponse reports whether a session was open when focus was lost.
type DiscardResponse struct {
	Discarded bool `json:"discarded"`
}

// Session handles GET requests for the open edit session.
//
// Endpoint: GET /api/editor
// Response: 200 OK with editor.Session, or 204 No Content when idle
func (h *EditorHandler) Session(w http.ResponseWriter, _ *http.Request) {
	session, ok := h.ledgerService.EditSession()
	if !ok {
		response.RespondJSON(w, http.StatusNoContent, nil)
		return
	}

	response.RespondJSON(w, http.StatusOK, session)
}

// Open handles a double-click. A live session is discarded first.
//
// Endpoint: POST /api/editor/open
// Request Body: OpenEditorRequest (region, rowId, column)
// Response: 200 OK with OpenEditorResponse
// Error: 400 Bad Request if the body is invalid
// Error: 404 Not Found if the row does not exist
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.OpenEditorRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateOpenEditor(req); err != nil {
		respondValidation(w, err)
		return
	}

	session, opened, err := h.ledgerService.OpenEditor(r.Context(), editor.Click{
		Region: editor.Region(req.Region),
		RowID:  req.RowID,
		Column: req.Column,
	})
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToOpenEditor.Error())
		return
	}

	resp := OpenEditorResponse{Opened: opened}
	if opened {
		resp.Session = &session
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// Keystroke handles a prospective change to the edit field.
//
// Endpoint: POST /api/editor/keystroke
// Request Body: KeystrokeRequest (text)
// Response: 200 OK with the updated editor.Session
// Error: 400 Bad Request if the text is rejected; details hold the unchanged session
// Error: 409 Conflict if no session is open
func (h *EditorHandler) Keystroke(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.KeystrokeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.ledgerService.Keystroke(req.Text)
	if err != nil {
		if errors.Is(err, apperrors.ErrKeystrokeRejected) {
			response.RespondError(w, http.StatusBadRequest, err.Error(), session)
			return
		}
		respondServiceError(w, err, "failed to apply keystroke")
		return
	}

	response.RespondJSON(w, http.StatusOK, session)
}

// Commit handles Enter: the field is written into the grid and the session closes.
//
// Endpoint: POST /api/editor/commit
// Response: 200 OK with editor.Commit
// Error: 409 Conflict if no session is open
// Error: 404 Not Found if the row was removed while editing
func (h *EditorHandler) Commit(w http.ResponseWriter, r *http.Request) {
	commit, err := h.ledgerService.CommitEdit(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCommitEdit.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, commit)
}

// Discard handles focus loss: the session closes without writing.
//
// Endpoint: POST /api/editor/discard
// Response: 200 OK with DiscardResponse
func (h *EditorHandler) Discard(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, DiscardResponse{
		Discarded: h.ledgerService.DiscardEdit(r.Context()),
	})
}
