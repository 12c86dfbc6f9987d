package model

import (
	"math"
	"math/rand"
)

// ForestConfig controls the bagged-tree ensemble.
type ForestConfig struct {
	NumTrees int
	MaxDepth int
	// Seed fixes bootstrap and feature sampling; required for reproducible
	// runs.
	Seed int64
}

// Forest is an ensemble of CART trees trained on bootstrap samples with
// sqrt-feature subsampling at each split.
type Forest struct {
	cfg    ForestConfig
	trees  []*Tree
	fitted bool

	importance []float64
}

// NewForest creates the ensemble variant.
func NewForest(cfg ForestConfig) *Forest {
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = 100
	}
	return &Forest{cfg: cfg}
}

// Fit trains the ensemble on the given data.
func (f *Forest) Fit(x [][]float64, y []int) error {
	if err := validateTrainingInput(x, y); err != nil {
		return err
	}
	rows := len(x)
	cols := len(x[0])
	maxFeatures := int(math.Sqrt(float64(cols)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rng := rand.New(rand.NewSource(f.cfg.Seed))
	f.trees = make([]*Tree, f.cfg.NumTrees)
	f.importance = make([]float64, cols)

	sampleX := make([][]float64, rows)
	sampleY := make([]int, rows)
	for t := 0; t < f.cfg.NumTrees; t++ {
		for i := 0; i < rows; i++ {
			pick := rng.Intn(rows)
			sampleX[i] = x[pick]
			sampleY[i] = y[pick]
		}
		tree := NewTree(TreeConfig{
			MaxDepth:    f.cfg.MaxDepth,
			MaxFeatures: maxFeatures,
			Rng:         rng,
		})
		if err := tree.Fit(sampleX, sampleY); err != nil {
			return err
		}
		f.trees[t] = tree
		for j, v := range tree.FeatureImportances() {
			f.importance[j] += v
		}
	}

	sum := 0.0
	for _, v := range f.importance {
		sum += v
	}
	if sum > 0 {
		for j := range f.importance {
			f.importance[j] /= sum
		}
	}
	f.fitted = true
	return nil
}

// Predict returns hard labels at the 0.5 mean-probability threshold.
func (f *Forest) Predict(x [][]float64) []int {
	probs := f.PredictProba(x)
	preds := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			preds[i] = 1
		}
	}
	return preds
}

// SupportsProba reports probability support.
func (f *Forest) SupportsProba() bool { return true }

// PredictProba averages leaf fractions across the ensemble.
func (f *Forest) PredictProba(x [][]float64) []float64 {
	if !f.fitted {
		return nil
	}
	probs := make([]float64, len(x))
	for _, tree := range f.trees {
		for i, p := range tree.PredictProba(x) {
			probs[i] += p
		}
	}
	for i := range probs {
		probs[i] /= float64(len(f.trees))
	}
	return probs
}

// SupportsImportances reports importance support.
func (f *Forest) SupportsImportances() bool { return true }

// FeatureImportances returns the mean normalized gini importance across trees.
func (f *Forest) FeatureImportances() []float64 {
	if !f.fitted {
		return nil
	}
	out := make([]float64, len(f.importance))
	copy(out, f.importance)
	return out
}
