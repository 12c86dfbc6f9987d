package dataset

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
}

func pricePoints(prices map[int]float64) []PricePoint {
	points := make([]PricePoint, 0, len(prices))
	for d, p := range prices {
		points = append(points, PricePoint{Date: day(d), Price: decimal.NewFromFloat(p)})
	}
	return points
}

func TestAlign(t *testing.T) {
	target := pricePoints(map[int]float64{1: 100, 2: 110, 3: 99, 4: 105})
	index := pricePoints(map[int]float64{1: 50, 2: 51, 3: 52, 4: 54})

	records, err := Align(target, index)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	// 4 joined dates, earliest dropped for the return computation.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// Descending order: most recent first.
	for i := 1; i < len(records); i++ {
		if !records[i-1].Date.After(records[i].Date) {
			t.Fatalf("records not sorted descending at %d", i)
		}
	}
	// Day 4 return: 105/99 - 1.
	want := 105.0/99.0 - 1
	if math.Abs(records[0].TargetReturn-want) > 1e-12 {
		t.Errorf("expected target return %f, got %f", want, records[0].TargetReturn)
	}
	wantIdx := 54.0/52.0 - 1
	if math.Abs(records[0].IndexReturn-wantIdx) > 1e-12 {
		t.Errorf("expected index return %f, got %f", wantIdx, records[0].IndexReturn)
	}
}

func TestAlignDropsNonOverlapping(t *testing.T) {
	target := pricePoints(map[int]float64{1: 100, 2: 110, 3: 99, 5: 101})
	index := pricePoints(map[int]float64{2: 50, 3: 52, 4: 53, 5: 54})

	records, err := Align(target, index)
	if err != nil {
		t.Fatalf("Align failed: %v", err)
	}
	// Overlap is days 2, 3, 5; day 2 is consumed by the return computation.
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Day 5's prior trading day within the join is day 3, not day 4.
	want := 101.0/99.0 - 1
	if math.Abs(records[0].TargetReturn-want) > 1e-12 {
		t.Errorf("expected return against prior joined day, want %f got %f", want, records[0].TargetReturn)
	}
}

func TestAlignEmptyJoin(t *testing.T) {
	target := pricePoints(map[int]float64{1: 100, 2: 110})
	index := pricePoints(map[int]float64{10: 50, 11: 51})
	if _, err := Align(target, index); !errors.Is(err, ErrEmptyJoin) {
		t.Fatalf("expected ErrEmptyJoin, got %v", err)
	}
}

func TestAlignSingleOverlap(t *testing.T) {
	target := pricePoints(map[int]float64{1: 100})
	index := pricePoints(map[int]float64{1: 50})
	if _, err := Align(target, index); !errors.Is(err, ErrEmptyJoin) {
		t.Fatalf("expected ErrEmptyJoin when no return is computable, got %v", err)
	}
}
