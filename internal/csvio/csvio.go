// Package csvio reads and writes the ledger CSV file.
//
// The file carries one record per fill with the fixed header
// open_date,ticker,long_short,open_shares,open_price,cost,close_date,close_shares,close_price,proceeds.
// Extra columns are ignored on read and never written.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/silver-potato-kebab/trade-tracker/internal/apperrors"
	"github.com/silver-potato-kebab/trade-tracker/internal/model"
)

const bom = "\uFEFF"

// Read parses a ledger file into records in file order.
//
// The header is checked before any record is decoded; a file missing one of
// the expected columns returns *apperrors.CSVStructureError. An empty file
// yields no records and no error.
func Read(r io.Reader) ([]model.TradeRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte(bom))
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.TradeRecord{}, nil
	}

	if err := checkHeader(data); err != nil {
		return nil, err
	}

	var records []model.TradeRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}
	if records == nil {
		records = []model.TradeRecord{}
	}
	return records, nil
}

// Write encodes records under the fixed header.
func Write(w io.Writer, records []model.TradeRecord) error {
	if len(records) == 0 {
		// Header only.
		_, err := io.WriteString(w, strings.Join(model.RawColumns, ",")+"\n")
		return err
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	return nil
}

func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &apperrors.CSVStructureError{Missing: model.RawColumns}
		}
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, column := range model.RawColumns {
		if !present[column] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return &apperrors.CSVStructureError{Missing: missing}
	}
	return nil
}
