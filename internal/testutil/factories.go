package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/silver-potato-kebab/trade-tracker/internal/csvio"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
	"github.com/silver-potato-kebab/trade-tracker/internal/repository"
)

// TradeBuilder provides a fluent interface for creating ledger records.
//
// Example usage:
//
//	// Simple creation with defaults
//	rec := testutil.NewTrade().Build()
//
//	// Customized fill
//	rec := testutil.NewTrade().
//	    WithTicker("SQQQ").
//	    Short().
//	    WithShares("5").
//	    WithCost("51.00").
//	    Build()
type TradeBuilder struct {
	record model.TradeRecord
}

// NewTrade creates a TradeBuilder for a 10 share long TQQQ fill costing 100.00.
func NewTrade() *TradeBuilder {
	return &TradeBuilder{record: model.TradeRecord{
		OpenDate:   "2024-01-01",
		Ticker:     "TQQQ",
		LongShort:  "Long",
		OpenShares: "10",
		OpenPrice:  "10.00",
		Cost:       "100.00",
	}}
}

// WithOpenDate sets the open date.
func (b *TradeBuilder) WithOpenDate(date string) *TradeBuilder {
	b.record.OpenDate = date
	return b
}

// WithTicker sets the ticker.
func (b *TradeBuilder) WithTicker(ticker string) *TradeBuilder {
	b.record.Ticker = ticker
	return b
}

// Short marks the fill as a short position.
func (b *TradeBuilder) Short() *TradeBuilder {
	b.record.LongShort = "Short"
	return b
}

// WithShares sets the opened share count.
func (b *TradeBuilder) WithShares(shares string) *TradeBuilder {
	b.record.OpenShares = shares
	return b
}

// WithCost sets the fill cost.
func (b *TradeBuilder) WithCost(cost string) *TradeBuilder {
	b.record.Cost = cost
	return b
}

// Closed fills in the closing side of the trade.
func (b *TradeBuilder) Closed(date, shares, price, proceeds string) *TradeBuilder {
	b.record.CloseDate = date
	b.record.CloseShares = shares
	b.record.ClosePrice = price
	b.record.Proceeds = proceeds
	return b
}

// Build returns the record.
func (b *TradeBuilder) Build() model.TradeRecord {
	return b.record
}

// CSV encodes records as a ledger file.
func CSV(t *testing.T, records ...model.TradeRecord) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	if err := csvio.Write(&buf, records); err != nil {
		t.Fatalf("Failed to encode CSV: %v", err)
	}
	return &buf
}

// SnapshotBuilder provides a fluent interface for creating stored snapshots.
//
// Example usage:
//
//	snapshot := testutil.NewSnapshot().
//	    WithName("before rebalance").
//	    WithRecords(testutil.NewTrade().Build()).
//	    Build(t, db)
type SnapshotBuilder struct {
	Snapshot model.Snapshot
	Rows     []model.SnapshotRow
}

// NewSnapshot creates a SnapshotBuilder with sensible defaults and no rows.
func NewSnapshot() *SnapshotBuilder {
	return &SnapshotBuilder{
		Snapshot: model.Snapshot{
			ID:        MakeID(),
			Name:      "Test Snapshot",
			CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

// WithID sets a custom ID.
func (b *SnapshotBuilder) WithID(id string) *SnapshotBuilder {
	b.Snapshot.ID = id
	return b
}

// WithName sets a custom name.
func (b *SnapshotBuilder) WithName(name string) *SnapshotBuilder {
	b.Snapshot.Name = name
	return b
}

// WithCreatedAt sets the creation time.
func (b *SnapshotBuilder) WithCreatedAt(t time.Time) *SnapshotBuilder {
	b.Snapshot.CreatedAt = t
	return b
}

// WithRecords appends one data row per record.
func (b *SnapshotBuilder) WithRecords(records ...model.TradeRecord) *SnapshotBuilder {
	for _, rec := range records {
		values := map[string]string{}
		for k, v := range rec.Fields() {
			if v != "" {
				values[k] = v
			}
		}
		b.Rows = append(b.Rows, model.SnapshotRow{Position: len(b.Rows), Values: values})
	}
	return b
}

// WithBlank appends a blank separator row.
func (b *SnapshotBuilder) WithBlank() *SnapshotBuilder {
	b.Rows = append(b.Rows, model.SnapshotRow{Position: len(b.Rows), Values: map[string]string{}})
	return b
}

// Build inserts the snapshot and its rows and returns the header.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.Snapshot {
	t.Helper()

	b.Snapshot.RowCount = len(b.Rows)
	for i := range b.Rows {
		b.Rows[i].SnapshotID = b.Snapshot.ID
	}

	repo := repository.NewSnapshotRepository(db)
	ctx := context.Background()
	if err := repo.InsertSnapshot(ctx, b.Snapshot); err != nil {
		t.Fatalf("Failed to create snapshot: %v", err)
	}
	if err := repo.InsertSnapshotRows(ctx, b.Rows); err != nil {
		t.Fatalf("Failed to create snapshot rows: %v", err)
	}

	return b.Snapshot
}
