package model

// LotSummary describes one lot found by the aggregation engine.
// Monetary values are the 2-decimal strings written to the anchor row.
type LotSummary struct {
	AnchorRowID   string `json:"anchorRowId"`
	OpenDate      string `json:"openDate"`
	Ticker        string `json:"ticker"`
	LongShort     string `json:"longShort"`
	Fills         int    `json:"fills"`
	TotalShares   string `json:"totalShares"`
	TotalCost     string `json:"totalCost"`
	CostBasis     string `json:"costBasis"`
	ProfitLoss    string `json:"profitLoss"`
	NetPercentage string `json:"netPercentage"`
}

// Warning is a non-fatal finding from a recompute, for example an omitted
// percentage on a zero-cost lot.
type Warning struct {
	RowID   string `json:"rowId"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AggregationReport is the outcome of one full recompute.
type AggregationReport struct {
	Lots     []LotSummary `json:"lots"`
	Warnings []Warning    `json:"warnings"`
}

// ImportReport is returned after a CSV import has populated the grid and run the engine.
// Records whose fields are all empty add no row and are counted in Skipped.
type ImportReport struct {
	Records    int       `json:"records"`
	Skipped    int       `json:"skipped"`
	Separators int       `json:"separators"`
	Lots       int       `json:"lots"`
	Warnings   []Warning `json:"warnings"`
}
