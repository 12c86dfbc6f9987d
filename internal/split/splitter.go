// Package split produces expanding-window train/test partitions that respect
// temporal order: training data for a fold never includes any index at or
// after the fold's test block.
package split

import (
	"errors"
	"fmt"
)

// ErrInvalidSplit reports a fold count incompatible with the sample size.
var ErrInvalidSplit = errors.New("invalid split configuration")

// Fold is one train/test partition. Index slices are ascending and must be
// treated as read-only by consumers.
type Fold struct {
	Train []int
	Test  []int
}

// Split partitions nSamples indices into nFolds expanding-window folds.
// Each fold's test set is a contiguous block of nSamples/(nFolds+1) indices
// immediately following its training prefix; the first fold's training
// prefix absorbs the remainder, so the union of test blocks covers exactly
// the trailing nFolds*(nSamples/(nFolds+1)) indices.
func Split(nSamples, nFolds int) ([]Fold, error) {
	if nFolds < 2 {
		return nil, fmt.Errorf("%w: need at least 2 folds, got %d", ErrInvalidSplit, nFolds)
	}
	if nSamples <= nFolds {
		return nil, fmt.Errorf("%w: %d samples cannot support %d folds", ErrInvalidSplit, nSamples, nFolds)
	}

	testSize := nSamples / (nFolds + 1)
	folds := make([]Fold, 0, nFolds)
	for i := 1; i <= nFolds; i++ {
		trainEnd := nSamples - (nFolds-i+1)*testSize
		folds = append(folds, Fold{
			Train: indexRange(0, trainEnd),
			Test:  indexRange(trainEnd, trainEnd+testSize),
		})
	}
	return folds, nil
}

func indexRange(start, end int) []int {
	indices := make([]int, end-start)
	for i := range indices {
		indices[i] = start + i
	}
	return indices
}
