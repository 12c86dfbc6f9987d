// Package report packages evaluation outputs into the payload handed to the
// presentation layer, plus console/CSV/JSON renderings of it.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/lagcast/internal/eval"
	"github.com/yourusername/lagcast/internal/feature"
)

// ImportanceEntry ranks one feature by its diagnostic-model weight.
type ImportanceEntry struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// Report is the aggregate payload for a single run. Not mutated after
// assembly.
type Report struct {
	RunID        uuid.UUID            `json:"run_id"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Model        string               `json:"model"`
	MeanMetrics  map[string]float64   `json:"mean_metrics"`
	Folds        []eval.FoldResult    `json:"folds"`
	Predictions  []eval.Prediction    `json:"predictions"`
	ROCPoints    []eval.ROCPoint      `json:"roc_points"`
	Importances  []ImportanceEntry    `json:"importances,omitempty"`
	Diagnostics  *feature.Diagnostics `json:"diagnostics,omitempty"`
	SkippedFolds int                  `json:"skipped_folds"`
}

// Assemble builds the report from evaluator outputs. Pure packaging: fold
// predictions are concatenated in fold order and importances ranked
// descending by weight.
func Assemble(res *eval.Result, featureNames []string, modelName string, diag *feature.Diagnostics) *Report {
	r := &Report{
		RunID:        uuid.New(),
		GeneratedAt:  time.Now().UTC(),
		Model:        modelName,
		MeanMetrics:  res.MeanMetrics,
		Folds:        res.Folds,
		ROCPoints:    res.ROCPoints,
		Diagnostics:  diag,
		SkippedFolds: res.SkippedFolds,
	}

	total := 0
	for _, fr := range res.Folds {
		total += len(fr.Predictions)
	}
	r.Predictions = make([]eval.Prediction, 0, total)
	for _, fr := range res.Folds {
		r.Predictions = append(r.Predictions, fr.Predictions...)
	}

	if res.Importances != nil {
		r.Importances = rankImportances(featureNames, res.Importances)
	}
	return r
}

func rankImportances(names []string, weights []float64) []ImportanceEntry {
	entries := make([]ImportanceEntry, 0, len(weights))
	for i, w := range weights {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		entries = append(entries, ImportanceEntry{Feature: name, Weight: w})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].Weight != entries[b].Weight {
			return entries[a].Weight > entries[b].Weight
		}
		return entries[a].Feature < entries[b].Feature
	})
	return entries
}
