package feature

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/yourusername/lagcast/internal/dataset"
)

// descendingRecords builds n aligned records, most recent first, with
// distinguishable return values: record i carries target return i/1000 and
// index return -i/1000.
func descendingRecords(n int) []dataset.AlignedRecord {
	records := make([]dataset.AlignedRecord, n)
	base := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		records[i] = dataset.AlignedRecord{
			Date:         base.AddDate(0, 0, -i),
			TargetReturn: float64(i) / 1000,
			IndexReturn:  -float64(i) / 1000,
		}
	}
	return records
}

func TestBuildRowCount(t *testing.T) {
	records := descendingRecords(500)
	m, err := Build(records, Config{Lags: []int{1, 2}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.NumRows() != 498 {
		t.Fatalf("expected 498 rows for 500 records with max lag 2, got %d", m.NumRows())
	}
	if m.NumFeatures() != 4 {
		t.Fatalf("expected 4 feature columns, got %d", m.NumFeatures())
	}
}

func TestBuildFeatureOrderAndNames(t *testing.T) {
	records := descendingRecords(50)
	m, err := Build(records, Config{Lags: []int{5, 1, 2, 2}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := []string{"target_lag1", "target_lag2", "target_lag5", "index_lag1", "index_lag2", "index_lag5"}
	if len(m.Names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(m.Names))
	}
	for i, name := range want {
		if m.Names[i] != name {
			t.Errorf("name %d: expected %s, got %s", i, name, m.Names[i])
		}
	}
}

func TestBuildPastLagsReferenceOlderReturns(t *testing.T) {
	records := descendingRecords(20)
	m, err := Build(records, Config{Lags: []int{1, 3}, Direction: LagDirectionPast})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	// Row i's target_lag1 must equal record i+1's target return, which is
	// older than row i's date in the descending order.
	for i := 0; i < m.NumRows(); i++ {
		if got, want := m.X[i][0], records[i+1].TargetReturn; got != want {
			t.Fatalf("row %d target_lag1: expected %f, got %f", i, want, got)
		}
		if got, want := m.X[i][1], records[i+3].TargetReturn; got != want {
			t.Fatalf("row %d target_lag3: expected %f, got %f", i, want, got)
		}
		if got, want := m.X[i][2], records[i+1].IndexReturn; got != want {
			t.Fatalf("row %d index_lag1: expected %f, got %f", i, want, got)
		}
	}
}

func TestBuildLabels(t *testing.T) {
	records := descendingRecords(10)
	records[0].TargetReturn = -0.01
	records[1].TargetReturn = 0.0
	records[2].TargetReturn = 0.02
	m, err := Build(records, Config{Lags: []int{1}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.Y[0] != 0 {
		t.Errorf("negative return must label 0")
	}
	if m.Y[1] != 1 {
		t.Errorf("zero return must label 1")
	}
	if m.Y[2] != 1 {
		t.Errorf("positive return must label 1")
	}
}

func TestBuildLegacyDirection(t *testing.T) {
	records := descendingRecords(30)
	m, err := Build(records, Config{Lags: []int{1}, Direction: LagDirectionLegacy})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.NumRows() != 29 {
		t.Fatalf("expected 29 rows, got %d", m.NumRows())
	}
	// Legacy row i's label comes from the reversed transition of record i,
	// and its lag-1 feature from the reversed transition of record i+1.
	for i := 0; i < 5; i++ {
		wantFeat := 1/(1+records[i+1].TargetReturn) - 1
		if math.Abs(m.X[i][0]-wantFeat) > 1e-12 {
			t.Fatalf("row %d legacy target_lag1: expected %f, got %f", i, wantFeat, m.X[i][0])
		}
		wantLabel := 0
		if 1/(1+records[i].TargetReturn)-1 >= 0 {
			wantLabel = 1
		}
		if m.Y[i] != wantLabel {
			t.Fatalf("row %d legacy label: expected %d, got %d", i, wantLabel, m.Y[i])
		}
	}
}

func TestBuildInsufficientData(t *testing.T) {
	records := descendingRecords(5)
	_, err := Build(records, Config{Lags: []int{10}})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for lag beyond series, got %v", err)
	}

	_, err = Build(records, Config{Lags: []int{1}, MinRows: 6})
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData under MinRows, got %v", err)
	}
}

func TestBuildRejectsBadLags(t *testing.T) {
	records := descendingRecords(10)
	if _, err := Build(records, Config{Lags: nil}); err == nil {
		t.Fatal("expected error for empty lag set")
	}
	if _, err := Build(records, Config{Lags: []int{0}}); err == nil {
		t.Fatal("expected error for non-positive lag")
	}
	if _, err := Build(records, Config{Lags: []int{1}, Direction: "sideways"}); err == nil {
		t.Fatal("expected error for unknown lag direction")
	}
}
