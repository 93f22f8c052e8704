package handlers

import (
	"net/http"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/request"
	"github.com/silver-potato-kebab/trade-tracker/internal/api/response"
	"github.com/silver-potato-kebab/trade-tracker/internal/service"
	"github.com/silver-potato-kebab/trade-tracker/internal/validation"
)

// RiskHandler handles position sizing requests.
type RiskHandler struct {
	riskService *service.RiskService
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskService *service.RiskService) *RiskHandler {
	return &RiskHandler{
		riskService: riskService,
	}
}

// PositionSize handles GET requests for the largest position a stop allows.
// riskPercentage and accountSize default to the configured values.
//
// Endpoint: GET /api/risk/position-size?riskPercentage&accountSize&sharePrice&stopPrice
// Response: 200 OK with risk.Plan
// Error: 400 Bad Request if a parameter is missing, not numeric, or the stop is not below the price
func (h *RiskHandler) PositionSize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pct, account := h.riskService.Defaults()

	req, err := request.ParsePositionSize(
		q.Get("riskPercentage"),
		q.Get("accountSize"),
		q.Get("sharePrice"),
		q.Get("stopPrice"),
		pct,
		account,
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	if err := validation.ValidatePositionSize(req); err != nil {
		respondValidation(w, err)
		return
	}

	plan, err := h.riskService.PositionSize(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to size position")
		return
	}

	response.RespondJSON(w, http.StatusOK, plan)
}
