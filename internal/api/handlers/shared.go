package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/response"
	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	return req, nil
}

// respondValidation writes a 400 with the per-field messages of a validation error.
func respondValidation(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
}

// errorStatus maps ledger and editor errors to HTTP status codes.
// Anything unrecognised is a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrRowNotFound),
		errors.Is(err, apperrors.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrEditSessionOpen),
		errors.Is(err, apperrors.ErrNoEditSession):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnparsableNumber),
		errors.Is(err, apperrors.ErrOrphanSeparator):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrInvalidCSVHeaders),
		errors.Is(err, apperrors.ErrKeystrokeRejected),
		errors.Is(err, apperrors.ErrInvalidPositionSize),
		errors.Is(err, apperrors.ErrInvalidSnapshotName),
		errors.Is(err, apperrors.ErrInvalidUUID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status errorStatus picks. message
// is used only for 500s; known errors are reported by their own text.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		response.RespondError(w, status, message, err.Error())
		return
	}
	response.RespondError(w, status, err.Error(), errorDetails(err))
}

// errorDetails exposes the structured fields of typed ledger errors.
func errorDetails(err error) any {
	var aggErr *apperrors.AggregationError
	if errors.As(err, &aggErr) {
		return map[string]any{
			"rowId":    aggErr.RowID,
			"position": aggErr.Position,
			"field":    aggErr.Field,
			"value":    aggErr.Value,
		}
	}
	var seqErr *apperrors.SequenceError
	if errors.As(err, &seqErr) {
		return map[string]any{
			"rowId":    seqErr.RowID,
			"position": seqErr.Position,
		}
	}
	var csvErr *apperrors.CSVStructureError
	if errors.As(err, &csvErr) {
		return map[string]any{"missing": csvErr.Missing}
	}
	return nil
}
