package dataset

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Align inner-joins the two series on date, orders the result descending by
// date (most recent first) and computes simple period returns per series
// against the prior trading day present in the join. The oldest joined row
// has no prior price and is dropped.
func Align(target, index []PricePoint) ([]AlignedRecord, error) {
	indexByDate := make(map[int64]decimal.Decimal, len(index))
	for _, p := range index {
		indexByDate[p.Date.Unix()] = p.Price
	}

	type joined struct {
		point      PricePoint
		indexPrice decimal.Decimal
	}
	rows := make([]joined, 0, len(target))
	for _, p := range target {
		if ip, ok := indexByDate[p.Date.Unix()]; ok {
			rows = append(rows, joined{point: p, indexPrice: ip})
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyJoin
	}

	// Canonical working order: most recent first.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].point.Date.After(rows[j].point.Date)
	})

	// Row i's prior trading day is row i+1; the last row has none.
	records := make([]AlignedRecord, 0, len(rows)-1)
	for i := 0; i < len(rows)-1; i++ {
		prev := rows[i+1]
		records = append(records, AlignedRecord{
			Date:         rows[i].point.Date,
			TargetReturn: simpleReturn(rows[i].point.Price, prev.point.Price),
			IndexReturn:  simpleReturn(rows[i].indexPrice, prev.indexPrice),
		})
	}
	if len(records) == 0 {
		return nil, ErrEmptyJoin
	}
	return records, nil
}

func simpleReturn(current, prior decimal.Decimal) float64 {
	ratio, _ := current.Div(prior).Float64()
	return ratio - 1
}
