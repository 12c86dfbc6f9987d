// Package model provides the pluggable binary direction classifiers the
// evaluator drives. Every variant declares its optional capabilities up
// front, so callers branch on flags instead of runtime introspection.
package model

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFitted     = errors.New("classifier has not been fitted")
	ErrEmptyInput    = errors.New("training input is empty")
	ErrShapeMismatch = errors.New("feature matrix and label vector lengths differ")
)

// Classifier is the capability interface every model variant implements.
// PredictProba is valid only when SupportsProba reports true, and
// FeatureImportances only when SupportsImportances reports true; calling an
// unsupported capability returns nil.
type Classifier interface {
	Fit(x [][]float64, y []int) error
	Predict(x [][]float64) []int

	SupportsProba() bool
	// PredictProba returns the positive-class probability per row.
	PredictProba(x [][]float64) []float64

	SupportsImportances() bool
	// FeatureImportances returns per-feature weights aligned to the
	// training feature order, summing to 1.
	FeatureImportances() []float64
}

// Factory resolves a variant by name into a constructor producing fresh,
// stateless instances. Recognized names: linear, tree, ensemble.
func Factory(name string, seed int64) (func() Classifier, error) {
	switch name {
	case "linear":
		return func() Classifier { return NewLogistic() }, nil
	case "tree":
		return func() Classifier { return NewTree(TreeConfig{}) }, nil
	case "ensemble":
		return func() Classifier { return NewForest(ForestConfig{Seed: seed}) }, nil
	default:
		return nil, fmt.Errorf("unknown model %q (want linear, tree or ensemble)", name)
	}
}

func validateTrainingInput(x [][]float64, y []int) error {
	if len(x) == 0 {
		return ErrEmptyInput
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows vs %d labels", ErrShapeMismatch, len(x), len(y))
	}
	return nil
}
