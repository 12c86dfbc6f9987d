package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateColumn  = "Date"
	priceColumn = "Adj.Close"

	// Exports use dd/mm/yyyy, matching the input format.
	dateLayout = "02/01/2006"
)

// ParseSeries reads a semicolon-delimited price table from r. The table must
// carry at least a Date column (dd/mm/yyyy) and an Adj.Close column. Numeric
// values may use a comma as the decimal separator.
func ParseSeries(r io.Reader) ([]PricePoint, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Message: "input is empty", Err: ErrEmptySeries}
	}
	if err != nil {
		return nil, &ParseError{Message: "failed to read header", Err: err}
	}

	dateIdx, priceIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case dateColumn:
			dateIdx = i
		case priceColumn:
			priceIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, &ParseError{Column: dateColumn, Message: "column not found", Err: ErrMissingColumn}
	}
	if priceIdx < 0 {
		return nil, &ParseError{Column: priceColumn, Message: "column not found", Err: ErrMissingColumn}
	}

	points := make([]PricePoint, 0, 256)
	seen := make(map[time.Time]struct{}, 256)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, NewParseError(line, "", "malformed row", err)
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, NewParseError(line, dateColumn, fmt.Sprintf("unparseable date %q", record[dateIdx]), err)
		}
		if _, dup := seen[date]; dup {
			return nil, NewParseError(line, dateColumn, fmt.Sprintf("duplicate date %s", date.Format(dateLayout)), nil)
		}
		seen[date] = struct{}{}

		price, err := parsePrice(record[priceIdx])
		if err != nil {
			return nil, NewParseError(line, priceColumn, fmt.Sprintf("unparseable price %q", record[priceIdx]), err)
		}
		if !price.IsPositive() {
			return nil, NewParseError(line, priceColumn, fmt.Sprintf("non-positive price %s", price), nil)
		}

		points = append(points, PricePoint{Date: date, Price: price})
	}

	if len(points) == 0 {
		return nil, &ParseError{Message: "no data rows after header", Err: ErrEmptySeries}
	}
	return points, nil
}

// LoadSeriesFile parses a price table from disk.
func LoadSeriesFile(path string) ([]PricePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open series file %s: %w", path, err)
	}
	defer f.Close()

	points, err := ParseSeries(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// parsePrice normalizes locale decimal commas before parsing.
func parsePrice(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	return decimal.NewFromString(normalized)
}
