package eval

import "sort"

// ROCPoint is one (false-positive-rate, true-positive-rate) pair at a
// decision threshold.
type ROCPoint struct {
	FPR float64 `json:"fpr"`
	TPR float64 `json:"tpr"`
}

// ROC traces the classifier's discrimination across all thresholds: scores
// are ranked descending, and a point is emitted after each distinct score
// value. The curve starts at (0,0) and ends at (1,1). Requires both classes
// to be present.
func ROC(actual []int, scores []float64) []ROCPoint {
	pos, neg := 0, 0
	for _, a := range actual {
		if a == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	points := []ROCPoint{{FPR: 0, TPR: 0}}
	tp, fp := 0, 0
	for i, idx := range order {
		if actual[idx] == 1 {
			tp++
		} else {
			fp++
		}
		// Emit only after consuming every observation at this score.
		if i+1 < len(order) && scores[order[i+1]] == scores[idx] {
			continue
		}
		points = append(points, ROCPoint{
			FPR: float64(fp) / float64(neg),
			TPR: float64(tp) / float64(pos),
		})
	}
	return points
}

// AUC integrates the ROC curve by the trapezoid rule. Returns 0 when the
// curve is undefined (single-class actuals).
func AUC(actual []int, scores []float64) float64 {
	points := ROC(actual, scores)
	if points == nil {
		return 0
	}
	area := 0.0
	for i := 1; i < len(points); i++ {
		width := points[i].FPR - points[i-1].FPR
		height := (points[i].TPR + points[i-1].TPR) / 2
		area += width * height
	}
	return area
}
