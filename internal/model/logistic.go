package model

import "math"

// Logistic is an L2-regularized logistic regression fitted by batch
// gradient descent over standardized inputs. Fully deterministic.
type Logistic struct {
	iterations int
	learnRate  float64
	l2         float64

	weights []float64
	bias    float64
	means   []float64
	stds    []float64
	fitted  bool
}

// NewLogistic creates the linear-boundary variant with default training
// parameters.
func NewLogistic() *Logistic {
	return &Logistic{
		iterations: 500,
		learnRate:  0.1,
		l2:         1e-3,
	}
}

// Fit estimates weights on the given training data.
func (l *Logistic) Fit(x [][]float64, y []int) error {
	if err := validateTrainingInput(x, y); err != nil {
		return err
	}
	rows := len(x)
	cols := len(x[0])

	l.means, l.stds = standardizationParams(x)
	scaled := make([][]float64, rows)
	for i, row := range x {
		scaled[i] = l.scale(row)
	}

	l.weights = make([]float64, cols)
	l.bias = 0
	for iter := 0; iter < l.iterations; iter++ {
		gradW := make([]float64, cols)
		gradB := 0.0
		for i, row := range scaled {
			p := sigmoid(dot(l.weights, row) + l.bias)
			err := p - float64(y[i])
			for j, v := range row {
				gradW[j] += err * v
			}
			gradB += err
		}
		scale := l.learnRate / float64(rows)
		for j := range l.weights {
			l.weights[j] -= scale * (gradW[j] + l.l2*l.weights[j])
		}
		l.bias -= scale * gradB
	}
	l.fitted = true
	return nil
}

// Predict returns hard 0/1 labels at the 0.5 threshold.
func (l *Logistic) Predict(x [][]float64) []int {
	probs := l.PredictProba(x)
	preds := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			preds[i] = 1
		}
	}
	return preds
}

// SupportsProba reports probability support.
func (l *Logistic) SupportsProba() bool { return true }

// PredictProba returns the positive-class probability per row.
func (l *Logistic) PredictProba(x [][]float64) []float64 {
	if !l.fitted {
		return nil
	}
	probs := make([]float64, len(x))
	for i, row := range x {
		probs[i] = sigmoid(dot(l.weights, l.scale(row)) + l.bias)
	}
	return probs
}

// SupportsImportances reports importance support; the linear variant has none.
func (l *Logistic) SupportsImportances() bool { return false }

// FeatureImportances is unsupported for the linear variant.
func (l *Logistic) FeatureImportances() []float64 { return nil }

func (l *Logistic) scale(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - l.means[j]) / l.stds[j]
	}
	return out
}

func standardizationParams(x [][]float64) (means, stds []float64) {
	rows := len(x)
	cols := len(x[0])
	means = make([]float64, cols)
	stds = make([]float64, cols)
	for _, row := range x {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(rows)
	}
	for _, row := range x {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / float64(rows))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}
	return means, stds
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
