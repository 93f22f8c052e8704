package request

import "github.com/silver-potato-kebab/trade-tracker/internal/model"

// AddEntryRequest is the request body for a manually added ledger row.
// The row is inserted at the head of the grid.
type AddEntryRequest struct {
	OpenDate    string `json:"openDate" validate:"required,datetime=2006-01-02"`
	Ticker      string `json:"ticker" validate:"required"`
	LongShort   string `json:"longShort" validate:"required"`
	OpenShares  string `json:"openShares" validate:"required"`
	OpenPrice   string `json:"openPrice"`
	Cost        string `json:"cost" validate:"required"`
	CloseDate   string `json:"closeDate" validate:"omitempty,datetime=2006-01-02"`
	CloseShares string `json:"closeShares"`
	ClosePrice  string `json:"closePrice"`
	Proceeds    string `json:"proceeds"`
}

// Record converts the request into a ledger record.
func (r AddEntryRequest) Record() model.TradeRecord {
	return model.TradeRecord{
		OpenDate:    r.OpenDate,
		Ticker:      r.Ticker,
		LongShort:   r.LongShort,
		OpenShares:  r.OpenShares,
		OpenPrice:   r.OpenPrice,
		Cost:        r.Cost,
		CloseDate:   r.CloseDate,
		CloseShares: r.CloseShares,
		ClosePrice:  r.ClosePrice,
		Proceeds:    r.Proceeds,
	}
}

// OpenEditorRequest describes a double-click resolved by the client.
// Region is one of "tree", "cell", "heading" or "nothing"; Column is -1 for
// the row label and 0..n-1 for data columns.
type OpenEditorRequest struct {
	Region string `json:"region" validate:"required,oneof=tree cell heading nothing"`
	RowID  string `json:"rowId"`
	Column int    `json:"column" validate:"min=-1"`
}

// KeystrokeRequest carries the prospective full text of the edit field.
type KeystrokeRequest struct {
	Text string `json:"text"`
}

// SaveSnapshotRequest is the request body for saving the grid as a snapshot.
type SaveSnapshotRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
