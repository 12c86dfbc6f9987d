// Package feature expands aligned return records into the lagged feature
// matrix and binary direction label consumed by the evaluator.
package feature

import (
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/lagcast/internal/dataset"
)

// LagDirection selects how lag offsets are resolved against the
// descending-ordered record slice.
type LagDirection string

const (
	// LagDirectionPast resolves lag k strictly toward older dates: the
	// feature at row i reads the return k trading days before row i.
	LagDirectionPast LagDirection = "past"

	// LagDirectionLegacy reproduces the original construction, which
	// shifted a reversed-order return series against the descending sort.
	// Labels end up keyed one transition late, so features reference the
	// calendar-future step relative to the row's nominal date. Kept only
	// for comparison against the past-only default.
	LagDirectionLegacy LagDirection = "legacy"
)

// Config controls feature construction.
type Config struct {
	Lags      []int
	Direction LagDirection
	// MinRows is the smallest acceptable number of produced rows; callers
	// evaluating k folds pass k+1.
	MinRows int
}

// Matrix is the immutable output of Build: one row per usable record, all
// target-lag columns first in ascending lag order, then index-lag columns.
type Matrix struct {
	Dates []time.Time
	X     [][]float64
	Y     []int
	Names []string
}

// NumRows returns the number of feature rows.
func (m *Matrix) NumRows() int { return len(m.X) }

// NumFeatures returns the number of feature columns.
func (m *Matrix) NumFeatures() int { return len(m.Names) }

// Build derives the lagged feature matrix from records sorted descending by
// date. Rows whose lag references fall outside the slice are dropped, so the
// output has exactly len(records) - max(lags) rows.
func Build(records []dataset.AlignedRecord, cfg Config) (*Matrix, error) {
	lags, err := normalizeLags(cfg.Lags)
	if err != nil {
		return nil, err
	}
	direction := cfg.Direction
	if direction == "" {
		direction = LagDirectionPast
	}
	if direction != LagDirectionPast && direction != LagDirectionLegacy {
		return nil, fmt.Errorf("unknown lag direction %q", direction)
	}

	maxLag := lags[len(lags)-1]
	n := len(records)
	if n <= maxLag {
		return nil, fmt.Errorf("%w: %d aligned records cannot support lag %d", ErrInsufficientData, n, maxLag)
	}

	targetRet, indexRet, dates := returnSeries(records, direction)

	rows := n - maxLag
	if cfg.MinRows > 0 && rows < cfg.MinRows {
		return nil, fmt.Errorf("%w: %d usable rows, need at least %d", ErrInsufficientData, rows, cfg.MinRows)
	}

	names := featureNames(lags)
	m := &Matrix{
		Dates: make([]time.Time, rows),
		X:     make([][]float64, rows),
		Y:     make([]int, rows),
		Names: names,
	}
	for i := 0; i < rows; i++ {
		row := make([]float64, 0, len(names))
		for _, k := range lags {
			row = append(row, targetRet[i+k])
		}
		for _, k := range lags {
			row = append(row, indexRet[i+k])
		}
		m.X[i] = row
		if targetRet[i] >= 0 {
			m.Y[i] = 1
		}
		m.Dates[i] = dates[i]
	}
	return m, nil
}

// returnSeries produces the per-direction return vectors indexed so that the
// feature at row i with lag k always reads position i+k.
func returnSeries(records []dataset.AlignedRecord, direction LagDirection) (target, index []float64, dates []time.Time) {
	n := len(records)
	target = make([]float64, n)
	index = make([]float64, n)
	dates = make([]time.Time, n)

	if direction == LagDirectionPast {
		for i, r := range records {
			target[i] = r.TargetReturn
			index[i] = r.IndexReturn
			dates[i] = r.Date
		}
		return target, index, dates
	}

	// Legacy: the original computed pct_change over the descending sort,
	// yielding the reversed transition at each row and dropping the newest
	// row, which had none. Position i of the returned slices holds the
	// inverse of the chronological return one step newer; the final
	// position belongs to the oldest price row, which resolves only as a
	// feature value and never as a labeled row.
	target = make([]float64, n+1)
	index = make([]float64, n+1)
	dates = make([]time.Time, n+1)
	for i := 1; i <= n; i++ {
		target[i] = reversed(records[i-1].TargetReturn)
		index[i] = reversed(records[i-1].IndexReturn)
		if i < n {
			dates[i] = records[i].Date
		}
	}
	return target[1:], index[1:], dates[1:]
}

func reversed(r float64) float64 {
	return 1/(1+r) - 1
}

func normalizeLags(lags []int) ([]int, error) {
	if len(lags) == 0 {
		return nil, fmt.Errorf("at least one lag is required")
	}
	seen := make(map[int]struct{}, len(lags))
	out := make([]int, 0, len(lags))
	for _, k := range lags {
		if k <= 0 {
			return nil, fmt.Errorf("lags must be positive, got %d", k)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Ints(out)
	return out, nil
}

func featureNames(lags []int) []string {
	names := make([]string, 0, 2*len(lags))
	for _, k := range lags {
		names = append(names, fmt.Sprintf("target_lag%d", k))
	}
	for _, k := range lags {
		names = append(names, fmt.Sprintf("index_lag%d", k))
	}
	return names
}
