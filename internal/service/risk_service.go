package service

import (
	"context"

	"github.com/silver-potato-kebab/trade-tracker/internal/api/request"
	"github.com/silver-potato-kebab/trade-tracker/internal/logging"
	"github.com/silver-potato-kebab/trade-tracker/internal/risk"
)

// RiskService sizes positions. Inputs omitted by the caller fall back to the
// configured risk percentage and account size.
type RiskService struct {
	defaultRiskPercentage float64
	defaultAccountSize    float64
}

// NewRiskService creates a new RiskService with configured defaults.
func NewRiskService(riskPercentage, accountSize float64) *RiskService {
	return &RiskService{
		defaultRiskPercentage: riskPercentage,
		defaultAccountSize:    accountSize,
	}
}

// Defaults returns the configured risk percentage and account size.
func (s *RiskService) Defaults() (riskPercentage, accountSize float64) {
	return s.defaultRiskPercentage, s.defaultAccountSize
}

// PositionSize computes the daily and per-trade risk budget and the largest
// share count for a trade.
func (s *RiskService) PositionSize(ctx context.Context, req request.PositionSizeRequest) (risk.Plan, error) {
	plan, err := risk.Size(req.RiskPercentage, req.AccountSize, req.SharePrice, req.StopPrice)
	if err != nil {
		return risk.Plan{}, err
	}

	logging.Debug(ctx, "Position sized",
		"share_price", plan.SharePrice,
		"stop_price", plan.StopPrice,
		"max_shares", plan.MaxSharesPerTrade,
	)
	return plan, nil
}
