// Package ledger rolls contiguous fill rows of the grid up into per-lot totals.
package ledger

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/grid"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
)

// Precision is the number of decimal places written for every computed field.
const Precision = 2

var (
	hundred = decimal.NewFromInt(100)

	errNotFinite = errors.New("not a finite number")
)

// lot is the running accumulator for the lot currently being scanned.
// Sums stay unrounded until finalize.
type lot struct {
	key      model.LotKey
	anchor   string
	fills    int
	shares   decimal.Decimal
	cost     decimal.Decimal
	proceeds decimal.Decimal
}

// RecomputeAll scans the grid once in display order and writes total_cost,
// cost_basis, profit_loss and net_percentage onto the anchor row of every lot.
//
// A lot is a contiguous run of non-blank rows sharing open_date, ticker and
// long_short. It ends at a key change, a blank separator row or the end of the
// grid. Grouping is positional: two separated runs with the same key are two lots.
//
// Failure Modes:
//   - A non-numeric open_shares, cost or proceeds returns *apperrors.AggregationError
//   - A blank row with no open lot above it returns *apperrors.SequenceError
//
// On failure nothing is written. Every lot is computed first and the store is
// only touched once the whole pass has succeeded.
//
// Zero Division:
// A lot whose total cost is zero gets an empty net_percentage, and one whose
// total shares are zero gets an empty cost_basis. Each omission is reported as
// a model.Warning instead of an error.
//
// A row whose raw columns are all empty counts as a blank separator even when
// stale computed fields remain on it; those fields are cleared by the pass.
// Computed fields left on rows that are no longer anchors are cleared.
func RecomputeAll(store *grid.Store) (model.AggregationReport, error) {
	rows := store.Rows()
	report := model.AggregationReport{
		Lots:     []model.LotSummary{},
		Warnings: []model.Warning{},
	}
	finish := func(l *lot) {
		summary, warnings := l.finalize()
		report.Lots = append(report.Lots, summary)
		report.Warnings = append(report.Warnings, warnings...)
	}

	var open *lot
	for pos, r := range rows {
		if separator(r) {
			if open == nil {
				return model.AggregationReport{}, &apperrors.SequenceError{RowID: r.ID, Position: pos}
			}
			finish(open)
			open = nil
			continue
		}

		fill, err := parseFill(r, pos)
		if err != nil {
			return model.AggregationReport{}, err
		}

		key := model.LotKey{
			OpenDate:  r.Values[model.ColOpenDate],
			Ticker:    r.Values[model.ColTicker],
			LongShort: r.Values[model.ColLongShort],
		}
		if open != nil && open.key == key {
			open.fills++
			open.shares = open.shares.Add(fill.shares)
			open.cost = open.cost.Add(fill.cost)
			open.proceeds = open.proceeds.Add(fill.proceeds)
			continue
		}

		if open != nil {
			finish(open)
		}
		fill.key = key
		fill.anchor = r.ID
		fill.fills = 1
		open = &fill
	}
	if open != nil {
		finish(open)
	}

	if err := write(store, rows, report.Lots); err != nil {
		return model.AggregationReport{}, err
	}
	return report, nil
}

// finalize rounds the running totals into the four computed fields.
func (l *lot) finalize() (model.LotSummary, []model.Warning) {
	var warnings []model.Warning

	totalCost := l.cost.Round(Precision)
	profitLoss := l.proceeds.Sub(totalCost).Round(Precision)

	costBasis := ""
	if l.shares.IsZero() {
		warnings = append(warnings, model.Warning{
			RowID:   l.anchor,
			Field:   model.ColCostBasis,
			Message: "total shares are zero, cost basis omitted",
		})
	} else {
		costBasis = totalCost.Div(l.shares).StringFixed(Precision)
	}

	netPercentage := ""
	if totalCost.IsZero() {
		warnings = append(warnings, model.Warning{
			RowID:   l.anchor,
			Field:   model.ColNetPercentage,
			Message: "total cost is zero, net percentage omitted",
		})
	} else {
		netPercentage = profitLoss.Div(totalCost).Mul(hundred).StringFixed(Precision)
	}

	return model.LotSummary{
		AnchorRowID:   l.anchor,
		OpenDate:      l.key.OpenDate,
		Ticker:        l.key.Ticker,
		LongShort:     l.key.LongShort,
		Fills:         l.fills,
		TotalShares:   l.shares.String(),
		TotalCost:     totalCost.StringFixed(Precision),
		CostBasis:     costBasis,
		ProfitLoss:    profitLoss.StringFixed(Precision),
		NetPercentage: netPercentage,
	}, warnings
}

// write stores the computed fields on every anchor and clears them elsewhere.
func write(store *grid.Store, rows []model.Row, lots []model.LotSummary) error {
	anchors := make(map[string]model.LotSummary, len(lots))
	for _, l := range lots {
		anchors[l.AnchorRowID] = l
	}

	for _, r := range rows {
		if r.Blank {
			continue
		}
		values := map[string]string{}
		if l, ok := anchors[r.ID]; ok {
			values[model.ColTotalCost] = l.TotalCost
			values[model.ColCostBasis] = l.CostBasis
			values[model.ColProfitLoss] = l.ProfitLoss
			values[model.ColNetPercentage] = l.NetPercentage
		}
		for _, column := range model.ComputedColumns {
			if err := store.Set(r.ID, column, values[column]); err != nil {
				return err
			}
		}
	}
	return nil
}

// separator reports whether the row holds no raw values.
func separator(r model.Row) bool {
	for _, column := range model.RawColumns {
		if r.Values[column] != "" {
			return false
		}
	}
	return true
}

// parseFill reads the numeric fields of one data row. Empty proceeds count as zero.
func parseFill(r model.Row, pos int) (lot, error) {
	shares, err := parseNumber(r, pos, model.ColOpenShares, false)
	if err != nil {
		return lot{}, err
	}
	cost, err := parseNumber(r, pos, model.ColCost, false)
	if err != nil {
		return lot{}, err
	}
	proceeds, err := parseNumber(r, pos, model.ColProceeds, true)
	if err != nil {
		return lot{}, err
	}
	return lot{shares: shares, cost: cost, proceeds: proceeds}, nil
}

func parseNumber(r model.Row, pos int, column string, emptyIsZero bool) (decimal.Decimal, error) {
	text := strings.TrimSpace(r.Values[column])
	if text == "" && emptyIsZero {
		return decimal.Zero, nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = errNotFinite
	}
	if err != nil {
		return decimal.Zero, &apperrors.AggregationError{
			RowID:    r.ID,
			Position: pos,
			Field:    column,
			Value:    text,
			Err:      err,
		}
	}
	return decimal.NewFromFloat(f), nil
}
