// Package dataset loads and aligns the raw daily price series the pipeline
// consumes. All operations are pure transformations over in-memory data.
package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a single dated observation from one price series.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// AlignedRecord is one joined observation of the target asset and the index.
// Returns are simple period returns against the prior trading day present in
// the join. Records are uniquely keyed by Date.
type AlignedRecord struct {
	Date         time.Time `json:"date"`
	TargetReturn float64   `json:"target_return"`
	IndexReturn  float64   `json:"index_return"`
}
