// Package eval drives the walk-forward evaluation: fitting a fresh
// classifier per fold, scoring out-of-fold predictions and aggregating
// fold-level metrics.
package eval

import "math"

// Metrics holds the scalar classification metrics for one fold.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	AUC       float64 `json:"auc"`
}

// Prediction is one out-of-fold test observation.
type Prediction struct {
	Actual      int     `json:"actual"`
	Predicted   int     `json:"predicted"`
	Probability float64 `json:"probability"`
}

// calculateMetrics scores hard predictions and the probability surrogate
// against actual labels. Callers must reject single-class actuals first;
// precision and recall fall back to 0 when their denominators vanish.
func calculateMetrics(actual, predicted []int, probs []float64) Metrics {
	tp, fp, tn, fn := confusion(actual, predicted)
	total := float64(tp + fp + tn + fn)

	m := Metrics{}
	if total > 0 {
		m.Accuracy = float64(tp+tn) / total
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.AUC = AUC(actual, probs)
	return m
}

func confusion(actual, predicted []int) (tp, fp, tn, fn int) {
	for i := range actual {
		switch {
		case actual[i] == 1 && predicted[i] == 1:
			tp++
		case actual[i] == 0 && predicted[i] == 1:
			fp++
		case actual[i] == 0 && predicted[i] == 0:
			tn++
		default:
			fn++
		}
	}
	return tp, fp, tn, fn
}

func isSingleClass(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, l := range labels[1:] {
		if l != first {
			return false
		}
	}
	return true
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
