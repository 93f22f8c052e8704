package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/request"
	"github.com/silver-potato-kebab/trade-tracker/internal/api/response"
	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/service"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

const maxImportBytes = 10 << 20

// LedgerHandler handles HTTP requests for the trade ledger grid.
// It serves as the HTTP layer adapter, parsing requests and delegating
// grid changes to the ledgerService.
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler with the provided service dependency.
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// LedgerResponse is the grid in display order together with its column names.
type LedgerResponse struct {
	Columns []string    `json:"columns"`
	Rows    []model.Row `json:"rows"`
}

// Ledger handles GET requests for the full grid.
//
// Endpoint: GET /api/ledger
// Response: 200 OK with LedgerResponse
func (h *LedgerHandler) Ledger(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, LedgerResponse{
		Columns: h.ledgerService.Columns(),
		Rows:    h.ledgerService.Rows(),
	})
}

// AddEntry handles POST requests to add a manually entered fill.
// The row is inserted at the head of the grid; aggregates are not recomputed.
//
// Endpoint: POST /api/ledger
// Request Body: AddEntryRequest
// Response: 201 Created with model.Row
// Error: 400 Bad Request if the body is invalid or a field fails its column kind
// Error: 500 Internal Server Error if the row cannot be added
func (h *LedgerHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AddEntryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddEntry(req, h.ledgerService.Kinds()); err != nil {
		respondValidation(w, err)
		return
	}

	row, err := h.ledgerService.AddEntry(r.Context(), req.Record())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAddEntry.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, row)
}

// Import handles POST requests carrying a ledger CSV file as the body.
// The grid is replaced and the aggregation engine is run once.
//
// Endpoint: POST /api/ledger/import
// Request Body: CSV with the ledger header
// Response: 200 OK with model.ImportReport
// Error: 400 Bad Request if headers are missing or the file cannot be decoded
// Error: 409 Conflict while an edit session is open
// Error: 422 Unprocessable Entity if a fill cannot be aggregated (rows stay imported)
func (h *LedgerHandler) Import(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerService.Import(r.Context(), io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		if errorStatus(err) == http.StatusInternalServerError {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrFailedToImportLedger.Error(), err.Error())
			return
		}
		respondServiceError(w, err, apperrors.ErrFailedToImportLedger.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// Export handles GET requests for the grid as a ledger CSV file, in reverse
// display order and without separators or computed columns.
//
// Endpoint: GET /api/ledger/export
// Response: 200 OK with text/csv body
// Error: 500 Internal Server Error if encoding fails
func (h *LedgerHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.ledgerService.Export(r.Context(), &buf); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExportLedger.Error(), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Recompute handles POST requests to rerun the aggregation engine.
//
// Endpoint: POST /api/ledger/recompute
// Response: 200 OK with model.AggregationReport
// Error: 422 Unprocessable Entity if a fill cannot be parsed or a separator is orphaned
func (h *LedgerHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerService.Recompute(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRecompute.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// Lots handles GET requests for the lot summaries of the last successful recompute.
//
// Endpoint: GET /api/ledger/lots
// Response: 200 OK with model.AggregationReport
func (h *LedgerHandler) Lots(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.ledgerService.Lots())
}
