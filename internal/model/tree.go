package model

import (
	"math/rand"
	"sort"
)

// TreeConfig controls CART growth.
type TreeConfig struct {
	// MaxDepth limits tree depth; 0 grows until leaves are pure or too
	// small to split.
	MaxDepth        int
	MinSamplesSplit int
	// MaxFeatures caps the number of candidate features examined per
	// split; 0 examines all. Used by the ensemble variant.
	MaxFeatures int
	// Rng drives feature subsampling when MaxFeatures is set; nil means
	// fully deterministic exhaustive search.
	Rng *rand.Rand
}

// Tree is a CART binary classifier splitting on gini impurity. With default
// config it is deterministic: ties resolve to the lowest feature index and
// threshold.
type Tree struct {
	cfg  TreeConfig
	root *treeNode

	nFeatures  int
	nTrain     int
	importance []float64
	fitted     bool
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	// leaf payload
	isLeaf  bool
	posFrac float64
}

// NewTree creates the single-tree variant.
func NewTree(cfg TreeConfig) *Tree {
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	return &Tree{cfg: cfg}
}

// Fit grows the tree on the training data.
func (t *Tree) Fit(x [][]float64, y []int) error {
	if err := validateTrainingInput(x, y); err != nil {
		return err
	}
	t.nFeatures = len(x[0])
	t.nTrain = len(x)
	t.importance = make([]float64, t.nFeatures)

	indices := make([]int, len(x))
	for i := range indices {
		indices[i] = i
	}
	t.root = t.grow(x, y, indices, 0)
	t.normalizeImportance()
	t.fitted = true
	return nil
}

// Predict returns hard labels from leaf majorities.
func (t *Tree) Predict(x [][]float64) []int {
	probs := t.PredictProba(x)
	preds := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			preds[i] = 1
		}
	}
	return preds
}

// SupportsProba reports probability support.
func (t *Tree) SupportsProba() bool { return true }

// PredictProba returns the leaf positive-class fraction per row.
func (t *Tree) PredictProba(x [][]float64) []float64 {
	if !t.fitted {
		return nil
	}
	probs := make([]float64, len(x))
	for i, row := range x {
		probs[i] = t.root.traverse(row)
	}
	return probs
}

// SupportsImportances reports importance support.
func (t *Tree) SupportsImportances() bool { return true }

// FeatureImportances returns normalized gini importance per feature.
func (t *Tree) FeatureImportances() []float64 {
	if !t.fitted {
		return nil
	}
	out := make([]float64, len(t.importance))
	copy(out, t.importance)
	return out
}

func (n *treeNode) traverse(row []float64) float64 {
	for !n.isLeaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.posFrac
}

func (t *Tree) grow(x [][]float64, y []int, indices []int, depth int) *treeNode {
	pos := 0
	for _, i := range indices {
		pos += y[i]
	}
	posFrac := float64(pos) / float64(len(indices))

	impurity := giniImpurity(posFrac)
	if impurity == 0 ||
		len(indices) < t.cfg.MinSamplesSplit ||
		(t.cfg.MaxDepth > 0 && depth >= t.cfg.MaxDepth) {
		return &treeNode{isLeaf: true, posFrac: posFrac}
	}

	feature, threshold, gain, ok := t.bestSplit(x, y, indices, impurity)
	if !ok {
		return &treeNode{isLeaf: true, posFrac: posFrac}
	}

	var left, right []int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{isLeaf: true, posFrac: posFrac}
	}

	t.importance[feature] += float64(len(indices)) / float64(t.nTrain) * gain

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(x, y, left, depth+1),
		right:     t.grow(x, y, right, depth+1),
	}
}

// bestSplit searches candidate features for the threshold with the highest
// impurity decrease. gain is the decrease relative to the parent impurity,
// weighted by child sizes.
func (t *Tree) bestSplit(x [][]float64, y []int, indices []int, parentImpurity float64) (feature int, threshold, gain float64, ok bool) {
	bestGain := 0.0
	candidates := t.candidateFeatures()

	type valueLabel struct {
		value float64
		label int
	}
	buf := make([]valueLabel, len(indices))

	for _, f := range candidates {
		for i, idx := range indices {
			buf[i] = valueLabel{value: x[idx][f], label: y[idx]}
		}
		sort.Slice(buf, func(a, b int) bool { return buf[a].value < buf[b].value })

		total := len(buf)
		totalPos := 0
		for _, vl := range buf {
			totalPos += vl.label
		}

		leftCount, leftPos := 0, 0
		for i := 0; i < total-1; i++ {
			leftCount++
			leftPos += buf[i].label
			if buf[i].value == buf[i+1].value {
				continue
			}
			rightCount := total - leftCount
			rightPos := totalPos - leftPos

			leftFrac := float64(leftPos) / float64(leftCount)
			rightFrac := float64(rightPos) / float64(rightCount)
			weighted := float64(leftCount)/float64(total)*giniImpurity(leftFrac) +
				float64(rightCount)/float64(total)*giniImpurity(rightFrac)
			g := parentImpurity - weighted
			if g > bestGain+1e-12 {
				bestGain = g
				feature = f
				threshold = (buf[i].value + buf[i+1].value) / 2
				ok = true
			}
		}
	}
	return feature, threshold, bestGain, ok
}

func (t *Tree) candidateFeatures() []int {
	all := make([]int, t.nFeatures)
	for i := range all {
		all[i] = i
	}
	if t.cfg.MaxFeatures <= 0 || t.cfg.MaxFeatures >= t.nFeatures || t.cfg.Rng == nil {
		return all
	}
	t.cfg.Rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	subset := all[:t.cfg.MaxFeatures]
	sort.Ints(subset)
	return subset
}

func (t *Tree) normalizeImportance() {
	sum := 0.0
	for _, v := range t.importance {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range t.importance {
		t.importance[i] /= sum
	}
}

func giniImpurity(posFrac float64) float64 {
	return 2 * posFrac * (1 - posFrac)
}
