package model

// TradeRecord is one CSV record of the ledger file. Field order follows the
// fixed export header.
type TradeRecord struct {
	OpenDate    string `csv:"open_date" json:"openDate"`
	Ticker      string `csv:"ticker" json:"ticker"`
	LongShort   string `csv:"long_short" json:"longShort"`
	OpenShares  string `csv:"open_shares" json:"openShares"`
	OpenPrice   string `csv:"open_price" json:"openPrice"`
	Cost        string `csv:"cost" json:"cost"`
	CloseDate   string `csv:"close_date" json:"closeDate"`
	CloseShares string `csv:"close_shares" json:"closeShares"`
	ClosePrice  string `csv:"close_price" json:"closePrice"`
	Proceeds    string `csv:"proceeds" json:"proceeds"`
}

// Fields returns the record keyed by grid column name.
func (r TradeRecord) Fields() map[string]string {
	return map[string]string{
		ColOpenDate:    r.OpenDate,
		ColTicker:      r.Ticker,
		ColLongShort:   r.LongShort,
		ColOpenShares:  r.OpenShares,
		ColOpenPrice:   r.OpenPrice,
		ColCost:        r.Cost,
		ColCloseDate:   r.CloseDate,
		ColCloseShares: r.CloseShares,
		ColClosePrice:  r.ClosePrice,
		ColProceeds:    r.Proceeds,
	}
}

// IsEmpty reports whether every exported field is empty.
func (r TradeRecord) IsEmpty() bool {
	for _, v := range r.Fields() {
		if v != "" {
			return false
		}
	}
	return true
}

// TradeRecordFromFields builds a record from grid values. Unknown keys are ignored.
func TradeRecordFromFields(fields map[string]string) TradeRecord {
	return TradeRecord{
		OpenDate:    fields[ColOpenDate],
		Ticker:      fields[ColTicker],
		LongShort:   fields[ColLongShort],
		OpenShares:  fields[ColOpenShares],
		OpenPrice:   fields[ColOpenPrice],
		Cost:        fields[ColCost],
		CloseDate:   fields[ColCloseDate],
		CloseShares: fields[ColCloseShares],
		ClosePrice:  fields[ColClosePrice],
		Proceeds:    fields[ColProceeds],
	}
}
