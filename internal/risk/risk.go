// Package risk sizes a position from an account's daily risk budget.
package risk

import (
	"fmt"
	"math"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
)

// Plan is the result of sizing one trade.
type Plan struct {
	RiskPercentage    float64 `json:"riskPercentage"`
	AccountSize       float64 `json:"accountSize"`
	SharePrice        float64 `json:"sharePrice"`
	StopPrice         float64 `json:"stopPrice"`
	MaxRiskPerDay     float64 `json:"maxRiskPerDay"`
	MaxRiskPerTrade   float64 `json:"maxRiskPerTrade"`
	MaxSharesPerTrade int64   `json:"maxSharesPerTrade"`
}

// MaxRiskPerDay returns the dollar amount that may be lost in one day.
func MaxRiskPerDay(riskPercentage, accountSize float64) float64 {
	return riskPercentage / 100 * accountSize
}

// MaxRiskPerTrade allows two losing trades per day.
func MaxRiskPerTrade(maxRiskPerDay float64) float64 {
	return maxRiskPerDay / 2
}

// MaxSharesPerTrade returns the largest whole share count that neither costs
// more than the account nor loses more than riskPerTrade when the stop is hit.
// The result is rounded half away from zero. Non-finite inputs and share
// counts beyond int64 return apperrors.ErrInvalidPositionSize.
func MaxSharesPerTrade(accountSize, sharePrice, stopPrice, riskPerTrade float64) (int64, error) {
	switch {
	case !finite(accountSize, sharePrice, stopPrice, riskPerTrade):
		return 0, fmt.Errorf("%w: inputs must be finite numbers", apperrors.ErrInvalidPositionSize)
	case sharePrice <= 0:
		return 0, fmt.Errorf("%w: share price must be positive", apperrors.ErrInvalidPositionSize)
	case stopPrice < 0 || stopPrice >= sharePrice:
		return 0, fmt.Errorf("%w: stop price must be below share price", apperrors.ErrInvalidPositionSize)
	case accountSize <= 0 || riskPerTrade < 0:
		return 0, fmt.Errorf("%w: account size and risk must be positive", apperrors.ErrInvalidPositionSize)
	}

	byAccount := accountSize / sharePrice
	byRisk := riskPerTrade / (sharePrice - stopPrice)
	shares := math.Round(math.Min(byAccount, byRisk))
	if math.IsNaN(shares) || shares >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: share count out of range", apperrors.ErrInvalidPositionSize)
	}
	return int64(shares), nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Size computes a full Plan.
func Size(riskPercentage, accountSize, sharePrice, stopPrice float64) (Plan, error) {
	if math.IsNaN(riskPercentage) || riskPercentage <= 0 || riskPercentage > 100 {
		return Plan{}, fmt.Errorf("%w: risk percentage must be in (0, 100]", apperrors.ErrInvalidPositionSize)
	}

	daily := MaxRiskPerDay(riskPercentage, accountSize)
	perTrade := MaxRiskPerTrade(daily)
	shares, err := MaxSharesPerTrade(accountSize, sharePrice, stopPrice, perTrade)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		RiskPercentage:    riskPercentage,
		AccountSize:       accountSize,
		SharePrice:        sharePrice,
		StopPrice:         stopPrice,
		MaxRiskPerDay:     daily,
		MaxRiskPerTrade:   perTrade,
		MaxSharesPerTrade: shares,
	}, nil
}
