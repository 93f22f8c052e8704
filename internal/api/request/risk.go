package request

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var errNotFinite = errors.New("not a finite number")

// PositionSizeRequest holds the query parameters of a position sizing request.
type PositionSizeRequest struct {
	RiskPercentage float64 `validate:"gt=0,lte=100"`
	AccountSize    float64 `validate:"gt=0"`
	SharePrice     float64 `validate:"gt=0"`
	StopPrice      float64 `validate:"gte=0,ltfield=SharePrice"`
}

// ParsePositionSize parses the query string values of a position sizing request.
// riskPercentage and accountSize fall back to the given defaults when empty.
// NaN and infinities are rejected.
func ParsePositionSize(riskPct, account, price, stop string, defaultRiskPct, defaultAccount float64) (PositionSizeRequest, error) {
	req := PositionSizeRequest{
		RiskPercentage: defaultRiskPct,
		AccountSize:    defaultAccount,
	}

	var err error
	if riskPct != "" {
		if req.RiskPercentage, err = parseFinite(riskPct, 64); err != nil {
			return req, fmt.Errorf("invalid riskPercentage: %w", err)
		}
	}
	if account != "" {
		if req.AccountSize, err = parseFinite(account, 64); err != nil {
			return req, fmt.Errorf("invalid accountSize: %w", err)
		}
	}
	if req.SharePrice, err = parseFinite(price, 64); err != nil {
		return req, fmt.Errorf("invalid sharePrice: %w", err)
	}
	if req.StopPrice, err = parseFinite(stop, 64); err != nil {
		return req, fmt.Errorf("invalid stopPrice: %w", err)
	}
	return req, nil
}

func parseFinite(text string, bitSize int) (float64, error) {
	f, err := strconv.ParseFloat(text, bitSize)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}
