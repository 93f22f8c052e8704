package model

// Grid column names. The same names are used as CSV headers.
const (
	ColOpenDate      = "open_date"
	ColTicker        = "ticker"
	ColLongShort     = "long_short"
	ColOpenShares    = "open_shares"
	ColOpenPrice     = "open_price"
	ColCost          = "cost"
	ColTotalCost     = "total_cost"
	ColCostBasis     = "cost_basis"
	ColCloseDate     = "close_date"
	ColCloseShares   = "close_shares"
	ColClosePrice    = "close_price"
	ColProceeds      = "proceeds"
	ColProfitLoss    = "profit_loss"
	ColNetPercentage = "net_percentage"
)

// LabelColumn is the column index of the row label ("#0" in a tree widget).
const LabelColumn = -1

// GridColumns lists the data columns in display order. A column index in the
// editor is a position in this slice.
var GridColumns = []string{
	ColOpenDate,
	ColTicker,
	ColLongShort,
	ColOpenShares,
	ColOpenPrice,
	ColCost,
	ColTotalCost,
	ColCostBasis,
	ColCloseDate,
	ColCloseShares,
	ColClosePrice,
	ColProceeds,
	ColProfitLoss,
	ColNetPercentage,
}

// RawColumns are the user or import supplied fields, in CSV header order.
var RawColumns = []string{
	ColOpenDate,
	ColTicker,
	ColLongShort,
	ColOpenShares,
	ColOpenPrice,
	ColCost,
	ColCloseDate,
	ColCloseShares,
	ColClosePrice,
	ColProceeds,
}

// ComputedColumns are owned by the aggregation engine and only set on lot anchor rows.
var ComputedColumns = []string{
	ColTotalCost,
	ColCostBasis,
	ColProfitLoss,
	ColNetPercentage,
}

// Row is a read-only copy of one grid row.
// An empty Values map marks a blank separator row.
type Row struct {
	ID     string            `json:"id"`
	Label  string            `json:"label,omitempty"`
	Values map[string]string `json:"values"`
	Blank  bool              `json:"blank"`
}

// LotKey identifies the trade a fill belongs to. Lots are formed from
// contiguous rows with equal keys.
type LotKey struct {
	OpenDate  string
	Ticker    string
	LongShort string
}
