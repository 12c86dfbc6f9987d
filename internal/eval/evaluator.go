package eval

import (
	"errors"
	"fmt"

	"github.com/yourusername/lagcast/internal/feature"
	"github.com/yourusername/lagcast/internal/metrics"
	"github.com/yourusername/lagcast/internal/model"
	"github.com/yourusername/lagcast/internal/split"
)

// ErrDegenerateFold reports a test fold containing only one class, which
// leaves precision, recall, F1 and AUC undefined.
var ErrDegenerateFold = errors.New("degenerate fold: test set contains a single class")

// DegeneratePolicy decides how a single-class test fold is handled.
type DegeneratePolicy string

const (
	// DegenerateFail aborts the run on the first degenerate fold.
	DegenerateFail DegeneratePolicy = "fail"
	// DegenerateSkip excludes degenerate folds from the metric mean while
	// still emitting their out-of-fold predictions.
	DegenerateSkip DegeneratePolicy = "skip"
)

// Options configures an evaluation run.
type Options struct {
	DegeneratePolicy DegeneratePolicy
}

// FoldResult holds one fold's metrics and raw test-set triples. Immutable
// once computed.
type FoldResult struct {
	Fold        int          `json:"fold"`
	TrainSize   int          `json:"train_size"`
	TestSize    int          `json:"test_size"`
	Metrics     Metrics      `json:"metrics"`
	Predictions []Prediction `json:"predictions"`
	// Skipped marks a degenerate fold excluded from aggregation under the
	// skip policy.
	Skipped bool `json:"skipped"`
}

// Result is the full evaluation output.
type Result struct {
	Folds []FoldResult `json:"folds"`
	// MeanMetrics maps metric name to the fold mean, rounded to 3 decimal
	// digits. Skipped folds are excluded.
	MeanMetrics map[string]float64 `json:"mean_metrics"`
	// ROCPoints come from a diagnostic model fitted on the full sample,
	// not from the fold models.
	ROCPoints []ROCPoint `json:"roc_points"`
	// Importances is nil when the model variant does not support them.
	Importances  []float64 `json:"importances,omitempty"`
	SkippedFolds int       `json:"skipped_folds"`
}

// Evaluate runs the walk-forward loop: a fresh model per fold, fitted on the
// training prefix and scored on the held-out block, then one more fresh
// model fitted on the entire sample for the in-sample ROC curve and feature
// importances.
func Evaluate(m *feature.Matrix, folds []split.Fold, factory func() model.Classifier, opts Options) (*Result, error) {
	policy := opts.DegeneratePolicy
	if policy == "" {
		policy = DegenerateFail
	}
	if policy != DegenerateFail && policy != DegenerateSkip {
		return nil, fmt.Errorf("unknown degenerate policy %q", policy)
	}
	if len(folds) == 0 {
		return nil, fmt.Errorf("no folds to evaluate")
	}

	result := &Result{Folds: make([]FoldResult, 0, len(folds))}
	sums := map[string]float64{}
	included := 0

	for i, fold := range folds {
		fr, err := evaluateFold(m, fold, factory())
		if err != nil {
			if errors.Is(err, ErrDegenerateFold) {
				metrics.DegenerateFoldsTotal.Inc()
				if policy == DegenerateFail {
					return nil, fmt.Errorf("fold %d: %w", i+1, err)
				}
				fr.Skipped = true
			} else {
				return nil, fmt.Errorf("fold %d: %w", i+1, err)
			}
		}
		fr.Fold = i + 1
		metrics.FoldsEvaluatedTotal.Inc()

		if fr.Skipped {
			result.SkippedFolds++
		} else {
			sums["accuracy"] += fr.Metrics.Accuracy
			sums["precision"] += fr.Metrics.Precision
			sums["recall"] += fr.Metrics.Recall
			sums["f1"] += fr.Metrics.F1
			sums["auc"] += fr.Metrics.AUC
			included++
		}
		result.Folds = append(result.Folds, fr)
	}

	if included == 0 {
		return nil, fmt.Errorf("all %d folds were degenerate: %w", len(folds), ErrDegenerateFold)
	}

	result.MeanMetrics = make(map[string]float64, len(sums))
	for name, sum := range sums {
		result.MeanMetrics[name] = round3(sum / float64(included))
	}

	if err := fullSampleDiagnostics(m, factory(), result); err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateFold fits a fresh model on the fold's training prefix and scores
// the held-out block. A degenerate test set still yields the prediction
// triples alongside ErrDegenerateFold so the skip policy can keep them.
func evaluateFold(m *feature.Matrix, fold split.Fold, clf model.Classifier) (FoldResult, error) {
	trainX, trainY := gather(m, fold.Train)
	testX, testY := gather(m, fold.Test)

	fr := FoldResult{TrainSize: len(fold.Train), TestSize: len(fold.Test)}
	if err := clf.Fit(trainX, trainY); err != nil {
		return fr, fmt.Errorf("fit failed: %w", err)
	}

	predicted := clf.Predict(testX)
	probs := probabilitySurrogate(clf, testX, predicted)

	fr.Predictions = make([]Prediction, len(testY))
	for i := range testY {
		fr.Predictions[i] = Prediction{Actual: testY[i], Predicted: predicted[i], Probability: probs[i]}
	}

	if isSingleClass(testY) {
		return fr, ErrDegenerateFold
	}
	fr.Metrics = calculateMetrics(testY, predicted, probs)
	return fr, nil
}

func fullSampleDiagnostics(m *feature.Matrix, clf model.Classifier, result *Result) error {
	if err := clf.Fit(m.X, m.Y); err != nil {
		return fmt.Errorf("full-sample fit failed: %w", err)
	}
	scores := probabilitySurrogate(clf, m.X, clf.Predict(m.X))
	result.ROCPoints = ROC(m.Y, scores)
	if clf.SupportsImportances() {
		result.Importances = clf.FeatureImportances()
	}
	return nil
}

// probabilitySurrogate substitutes hard predictions when the variant has no
// probability estimates.
func probabilitySurrogate(clf model.Classifier, x [][]float64, predicted []int) []float64 {
	if clf.SupportsProba() {
		return clf.PredictProba(x)
	}
	probs := make([]float64, len(predicted))
	for i, p := range predicted {
		probs[i] = float64(p)
	}
	return probs
}

func gather(m *feature.Matrix, indices []int) ([][]float64, []int) {
	x := make([][]float64, len(indices))
	y := make([]int, len(indices))
	for i, idx := range indices {
		x[i] = m.X[idx]
		y[i] = m.Y[idx]
	}
	return x, y
}
