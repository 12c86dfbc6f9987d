package eval

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/yourusername/lagcast/internal/feature"
	"github.com/yourusername/lagcast/internal/model"
	"github.com/yourusername/lagcast/internal/split"
)

// syntheticMatrix builds a matrix whose label tracks the first feature with
// some noise, so every variant has signal to learn.
func syntheticMatrix(rows int, seed int64) *feature.Matrix {
	rng := rand.New(rand.NewSource(seed))
	m := &feature.Matrix{
		Dates: make([]time.Time, rows),
		X:     make([][]float64, rows),
		Y:     make([]int, rows),
		Names: []string{"target_lag1", "target_lag2", "index_lag1", "index_lag2"},
	}
	base := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		f0 := rng.NormFloat64()
		m.X[i] = []float64{f0, rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if f0+0.3*rng.NormFloat64() >= 0 {
			m.Y[i] = 1
		}
		m.Dates[i] = base.AddDate(0, 0, -i)
	}
	return m
}

func TestEvaluateLinearPipeline(t *testing.T) {
	m := syntheticMatrix(498, 11)
	folds, err := split.Split(m.NumRows(), 5)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	factory, err := model.Factory("linear", 0)
	if err != nil {
		t.Fatalf("Factory failed: %v", err)
	}

	result, err := Evaluate(m, folds, factory, Options{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if len(result.Folds) != 5 {
		t.Fatalf("expected 5 fold results, got %d", len(result.Folds))
	}
	prevTrain := 0
	totalPreds := 0
	for _, fr := range result.Folds {
		if fr.TrainSize <= prevTrain {
			t.Errorf("fold %d: training size must strictly increase", fr.Fold)
		}
		prevTrain = fr.TrainSize
		totalPreds += len(fr.Predictions)
	}
	testSize := m.NumRows() / 6
	if totalPreds != 5*testSize {
		t.Errorf("expected %d concatenated predictions, got %d", 5*testSize, totalPreds)
	}

	for _, name := range []string{"accuracy", "precision", "recall", "f1", "auc"} {
		v, ok := result.MeanMetrics[name]
		if !ok {
			t.Fatalf("missing mean metric %s", name)
		}
		if v != round3(v) {
			t.Errorf("metric %s not rounded to 3 decimals: %v", name, v)
		}
	}
	auc := result.MeanMetrics["auc"]
	if auc <= 0 || auc >= 1 {
		t.Errorf("expected AUC strictly between 0 and 1, got %f", auc)
	}
	// The label tracks the first feature; the linear model should beat a
	// coin flip comfortably.
	if result.MeanMetrics["accuracy"] < 0.6 {
		t.Errorf("expected accuracy above 0.6, got %f", result.MeanMetrics["accuracy"])
	}

	if len(result.ROCPoints) == 0 {
		t.Error("expected full-sample ROC points")
	}
	if result.ROCPoints[0].FPR != 0 || result.ROCPoints[0].TPR != 0 {
		t.Error("ROC must start at the origin")
	}
	last := result.ROCPoints[len(result.ROCPoints)-1]
	if last.FPR != 1 || last.TPR != 1 {
		t.Error("ROC must end at (1,1)")
	}
	if result.Importances != nil {
		t.Error("linear variant must not report importances")
	}
}

func TestEvaluateEnsembleImportances(t *testing.T) {
	m := syntheticMatrix(150, 12)
	folds, _ := split.Split(m.NumRows(), 3)
	factory, _ := model.Factory("ensemble", 42)

	result, err := Evaluate(m, folds, factory, Options{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(result.Importances) != m.NumFeatures() {
		t.Fatalf("expected %d importances, got %d", m.NumFeatures(), len(result.Importances))
	}
	sum := 0.0
	best := 0
	for i, v := range result.Importances {
		sum += v
		if v > result.Importances[best] {
			best = i
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("importances should sum to 1, got %f", sum)
	}
	if best != 0 {
		t.Errorf("expected the informative feature to rank first, got index %d", best)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	m := syntheticMatrix(120, 13)
	folds, _ := split.Split(m.NumRows(), 3)
	factory, _ := model.Factory("ensemble", 7)

	first, err := Evaluate(m, folds, factory, Options{})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := Evaluate(m, folds, factory, Options{})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !reflect.DeepEqual(first.MeanMetrics, second.MeanMetrics) {
		t.Error("mean metrics differ across identical seeded runs")
	}
	if !reflect.DeepEqual(first.ROCPoints, second.ROCPoints) {
		t.Error("ROC points differ across identical seeded runs")
	}
	if !reflect.DeepEqual(first.Importances, second.Importances) {
		t.Error("importances differ across identical seeded runs")
	}
}

func constantLabelMatrix(rows int) *feature.Matrix {
	m := syntheticMatrix(rows, 14)
	for i := range m.Y {
		m.Y[i] = 1
	}
	return m
}

func TestEvaluateDegenerateFail(t *testing.T) {
	m := constantLabelMatrix(100)
	folds, _ := split.Split(m.NumRows(), 4)
	factory, _ := model.Factory("linear", 0)

	_, err := Evaluate(m, folds, factory, Options{})
	if !errors.Is(err, ErrDegenerateFold) {
		t.Fatalf("expected ErrDegenerateFold, got %v", err)
	}
}

func TestEvaluateDegenerateSkip(t *testing.T) {
	m := syntheticMatrix(100, 15)
	// Make only the last test block (indices 80-99) single-class.
	for i := 0; i < 80; i++ {
		m.Y[i] = i % 2
	}
	for i := 80; i < 100; i++ {
		m.Y[i] = 1
	}
	folds, _ := split.Split(m.NumRows(), 4)
	factory, _ := model.Factory("linear", 0)

	result, err := Evaluate(m, folds, factory, Options{DegeneratePolicy: DegenerateSkip})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if result.SkippedFolds != 1 {
		t.Fatalf("expected 1 skipped fold, got %d", result.SkippedFolds)
	}
	lastFold := result.Folds[len(result.Folds)-1]
	if !lastFold.Skipped {
		t.Error("expected the final fold to be marked skipped")
	}
	if len(lastFold.Predictions) != 20 {
		t.Errorf("skipped folds must still emit predictions, got %d", len(lastFold.Predictions))
	}
}

func TestEvaluateAllDegenerate(t *testing.T) {
	m := constantLabelMatrix(60)
	folds, _ := split.Split(m.NumRows(), 2)
	factory, _ := model.Factory("linear", 0)

	_, err := Evaluate(m, folds, factory, Options{DegeneratePolicy: DegenerateSkip})
	if !errors.Is(err, ErrDegenerateFold) {
		t.Fatalf("expected ErrDegenerateFold when every fold is skipped, got %v", err)
	}
}

// hardOnly is a stub variant without probability support.
type hardOnly struct{ fitted bool }

func (h *hardOnly) Fit(x [][]float64, y []int) error { h.fitted = true; return nil }
func (h *hardOnly) Predict(x [][]float64) []int {
	preds := make([]int, len(x))
	for i, row := range x {
		if row[0] >= 0 {
			preds[i] = 1
		}
	}
	return preds
}
func (h *hardOnly) SupportsProba() bool               { return false }
func (h *hardOnly) PredictProba(x [][]float64) []float64 { return nil }
func (h *hardOnly) SupportsImportances() bool         { return false }
func (h *hardOnly) FeatureImportances() []float64     { return nil }

func TestProbabilitySurrogate(t *testing.T) {
	m := syntheticMatrix(90, 16)
	folds, _ := split.Split(m.NumRows(), 2)

	result, err := Evaluate(m, folds, func() model.Classifier { return &hardOnly{} }, Options{})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	for _, fr := range result.Folds {
		for _, p := range fr.Predictions {
			if p.Probability != float64(p.Predicted) {
				t.Fatalf("expected hard prediction surrogate, got %f for predicted %d", p.Probability, p.Predicted)
			}
		}
	}
}
