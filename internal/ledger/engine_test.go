package ledger_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/grid"
	"github.com/silver-potato-kebab/trade-tracker/internal/ledger"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
)

func fill(date, ticker, side, shares, cost, proceeds string) map[string]string {
	return map[string]string{
		model.ColOpenDate:   date,
		model.ColTicker:     ticker,
		model.ColLongShort:  side,
		model.ColOpenShares: shares,
		model.ColCost:       cost,
		model.ColProceeds:   proceeds,
	}
}

// build appends each entry to a new store; a nil entry inserts a blank row.
func build(t *testing.T, entries ...map[string]string) (*grid.Store, []string) {
	t.Helper()

	store := grid.New()
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			ids = append(ids, store.Insert(grid.End))
			continue
		}
		ids = append(ids, store.InsertValues(grid.End, e))
	}
	return store, ids
}

func computed(t *testing.T, store *grid.Store, id string) [4]string {
	t.Helper()

	var out [4]string
	for i, column := range model.ComputedColumns {
		v, err := store.Get(id, column)
		if err != nil {
			t.Fatalf("Get(%s, %s) returned unexpected error: %v", id, column, err)
		}
		out[i] = v
	}
	return out
}

func TestRecomputeAll(t *testing.T) {
	t.Run("rolls up partial fills onto the anchor row", func(t *testing.T) {
		store, ids := build(t,
			fill("2024-01-01", "TQQQ", "Long", "10", "100.00", ""),
			fill("2024-01-01", "TQQQ", "Long", "5", "51.00", ""),
			nil,
		)

		report, err := ledger.RecomputeAll(store)
		if err != nil {
			t.Fatalf("RecomputeAll() returned unexpected error: %v", err)
		}

		want := [4]string{"151.00", "10.07", "-151.00", "-100.00"}
		if got := computed(t, store, ids[0]); got != want {
			t.Errorf("Expected anchor fields %v, got %v", want, got)
		}
		if got := computed(t, store, ids[1]); got != ([4]string{}) {
			t.Errorf("Expected second fill to carry no aggregates, got %v", got)
		}
		if len(report.Lots) != 1 || report.Lots[0].Fills != 2 || report.Lots[0].TotalShares != "15" {
			t.Errorf("Unexpected report: %+v", report.Lots)
		}
		if len(report.Warnings) != 0 {
			t.Errorf("Expected no warnings, got %v", report.Warnings)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		store, _ := build(t,
			fill("2024-01-01", "TQQQ", "Long", "3", "10.005", "12.3"),
			fill("2024-01-01", "TQQQ", "Long", "7", "20.333", "7.777"),
			nil,
			fill("2024-01-02", "SQQQ", "Short", "4", "44.44", "-1"),
		)

		if _, err := ledger.RecomputeAll(store); err != nil {
			t.Fatal(err)
		}
		first := store.Rows()
		if _, err := ledger.RecomputeAll(store); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, store.Rows()) {
			t.Error("Expected identical computed fields after second recompute")
		}
	})

	t.Run("groups positionally", func(t *testing.T) {
		store, ids := build(t,
			fill("2024-01-01", "TQQQ", "Long", "10", "100", ""),
			nil,
			fill("2024-01-01", "TQQQ", "Long", "10", "200", ""),
		)

		report, err := ledger.RecomputeAll(store)
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Lots) != 2 {
			t.Fatalf("Expected 2 lots, got %d", len(report.Lots))
		}
		if got := computed(t, store, ids[0])[0]; got != "100.00" {
			t.Errorf("Expected first lot total 100.00, got %s", got)
		}
		if got := computed(t, store, ids[2])[0]; got != "200.00" {
			t.Errorf("Expected second lot total 200.00, got %s", got)
		}
	})

	t.Run("key change starts a new lot without a blank row", func(t *testing.T) {
		store, ids := build(t,
			fill("2024-01-01", "TQQQ", "Long", "10", "100", ""),
			fill("2024-01-01", "TQQQ", "Short", "10", "50", "60"),
		)

		if _, err := ledger.RecomputeAll(store); err != nil {
			t.Fatal(err)
		}
		want := [4]string{"50.00", "5.00", "10.00", "20.00"}
		if got := computed(t, store, ids[1]); got != want {
			t.Errorf("Expected trailing lot %v, got %v", want, got)
		}
	})

	t.Run("accumulates proceeds across fills", func(t *testing.T) {
		store, ids := build(t,
			fill("2024-02-01", "SPY", "Long", "2", "800", "450.25"),
			fill("2024-02-01", "SPY", "Long", "2", "800", "449.75"),
			nil,
		)

		if _, err := ledger.RecomputeAll(store); err != nil {
			t.Fatal(err)
		}
		want := [4]string{"1600.00", "400.00", "-700.00", "-43.75"}
		if got := computed(t, store, ids[0]); got != want {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("parse error writes nothing", func(t *testing.T) {
		store, ids := build(t,
			fill("2024-01-01", "TQQQ", "Long", "10", "100", ""),
			nil,
			fill("2024-01-02", "SQQQ", "Long", "ten", "100", ""),
		)
		before := store.Rows()

		_, err := ledger.RecomputeAll(store)

		var aggErr *apperrors.AggregationError
		if !errors.As(err, &aggErr) {
			t.Fatalf("Expected AggregationError, got %v", err)
		}
		if aggErr.RowID != ids[2] || aggErr.Field != model.ColOpenShares || aggErr.Position != 2 {
			t.Errorf("Unexpected error details: %+v", aggErr)
		}
		if !errors.Is(err, apperrors.ErrUnparsableNumber) {
			t.Error("Expected error to match ErrUnparsableNumber")
		}
		if !reflect.DeepEqual(before, store.Rows()) {
			t.Error("Expected store unchanged after failed recompute")
		}
	})

	t.Run("empty cost is a parse error", func(t *testing.T) {
		store, _ := build(t, fill("2024-01-01", "TQQQ", "Long", "10", "", ""))

		var aggErr *apperrors.AggregationError
		if _, err := ledger.RecomputeAll(store); !errors.As(err, &aggErr) || aggErr.Field != model.ColCost {
			t.Errorf("Expected cost AggregationError, got %v", err)
		}
	})

	t.Run("blank row without open lot fails", func(t *testing.T) {
		tests := []struct {
			name    string
			entries []map[string]string
			pos     int
		}{
			{"leading blank", []map[string]string{nil, fill("2024-01-01", "A", "Long", "1", "1", "")}, 0},
			{"double blank", []map[string]string{fill("2024-01-01", "A", "Long", "1", "1", ""), nil, nil}, 2},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store, ids := build(t, tt.entries...)
				before := store.Rows()

				_, err := ledger.RecomputeAll(store)

				var seqErr *apperrors.SequenceError
				if !errors.As(err, &seqErr) {
					t.Fatalf("Expected SequenceError, got %v", err)
				}
				if seqErr.RowID != ids[tt.pos] || seqErr.Position != tt.pos {
					t.Errorf("Unexpected error details: %+v", seqErr)
				}
				if !reflect.DeepEqual(before, store.Rows()) {
					t.Error("Expected store unchanged")
				}
			})
		}
	})

	t.Run("zero cost omits net percentage with a warning", func(t *testing.T) {
		store, ids := build(t, fill("2024-01-01", "GIFT", "Long", "5", "0", "10"), nil)

		report, err := ledger.RecomputeAll(store)
		if err != nil {
			t.Fatalf("Expected zero cost to be non-fatal, got %v", err)
		}
		want := [4]string{"0.00", "0.00", "10.00", ""}
		if got := computed(t, store, ids[0]); got != want {
			t.Errorf("Expected %v, got %v", want, got)
		}
		if len(report.Warnings) != 1 || report.Warnings[0].Field != model.ColNetPercentage {
			t.Errorf("Expected one net_percentage warning, got %v", report.Warnings)
		}
	})

	t.Run("zero shares omits cost basis with a warning", func(t *testing.T) {
		store, ids := build(t, fill("2024-01-01", "ABC", "Long", "0", "10", ""))

		report, err := ledger.RecomputeAll(store)
		if err != nil {
			t.Fatal(err)
		}
		if got := computed(t, store, ids[0])[1]; got != "" {
			t.Errorf("Expected empty cost basis, got %q", got)
		}
		if len(report.Warnings) != 1 || report.Warnings[0].Field != model.ColCostBasis {
			t.Errorf("Expected one cost_basis warning, got %v", report.Warnings)
		}
	})

	t.Run("clears aggregates from former anchors", func(t *testing.T) {
		store, ids := build(t,
			fill("2024-01-01", "TQQQ", "Long", "10", "100", ""),
			fill("2024-01-02", "TQQQ", "Long", "5", "50", ""),
		)
		if _, err := ledger.RecomputeAll(store); err != nil {
			t.Fatal(err)
		}
		if got := computed(t, store, ids[1])[0]; got != "50.00" {
			t.Fatalf("Expected second row to be an anchor, got %q", got)
		}

		if err := store.Set(ids[1], model.ColOpenDate, "2024-01-01"); err != nil {
			t.Fatal(err)
		}
		if _, err := ledger.RecomputeAll(store); err != nil {
			t.Fatal(err)
		}
		if got := computed(t, store, ids[1]); got != ([4]string{}) {
			t.Errorf("Expected merged fill to lose aggregates, got %v", got)
		}
		if got := computed(t, store, ids[0])[0]; got != "150.00" {
			t.Errorf("Expected merged total 150.00, got %s", got)
		}
	})

	t.Run("anchor with raw fields cleared becomes a separator", func(t *testing.T) {
		store, ids := build(t,
			fill("2024-01-01", "TQQQ", "Long", "10", "100", ""),
			nil,
			fill("2024-01-02", "SPY", "Long", "5", "50", ""),
			fill("2024-01-03", "QQQ", "Short", "2", "20", ""),
		)
		if _, err := ledger.RecomputeAll(store); err != nil {
			t.Fatal(err)
		}

		for column := range fill("", "", "", "", "", "") {
			if err := store.Set(ids[3], column, ""); err != nil {
				t.Fatal(err)
			}
		}

		report, err := ledger.RecomputeAll(store)
		if err != nil {
			t.Fatalf("RecomputeAll() returned unexpected error: %v", err)
		}
		if len(report.Lots) != 2 {
			t.Errorf("Expected 2 lots, got %d", len(report.Lots))
		}
		if blank, _ := store.IsBlank(ids[3]); !blank {
			t.Errorf("Expected stale aggregates to be cleared, got %v", computed(t, store, ids[3]))
		}
	})

	t.Run("empty grid", func(t *testing.T) {
		report, err := ledger.RecomputeAll(grid.New())
		if err != nil || len(report.Lots) != 0 {
			t.Errorf("Expected empty report, got %+v, %v", report, err)
		}
	})
}
