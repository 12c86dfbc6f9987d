package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConsoleReport formats the report for terminal output.
func ConsoleReport(r *Report) string {
	var builder strings.Builder
	builder.WriteString("Direction Classification Report\n")
	builder.WriteString("===============================\n")
	builder.WriteString(fmt.Sprintf("Run ID: %s\n", r.RunID))
	builder.WriteString(fmt.Sprintf("Model: %s\n", r.Model))
	for _, m := range []struct{ key, label string }{
		{"accuracy", "Accuracy"},
		{"precision", "Precision"},
		{"recall", "Recall"},
		{"f1", "F1 Score"},
		{"auc", "AUC"},
	} {
		builder.WriteString(fmt.Sprintf("%s: %.3f\n", m.label, r.MeanMetrics[m.key]))
	}
	builder.WriteString(fmt.Sprintf("Folds: %d (skipped: %d)\n", len(r.Folds), r.SkippedFolds))
	builder.WriteString(fmt.Sprintf("Out-of-fold predictions: %d\n", len(r.Predictions)))
	if len(r.Importances) > 0 {
		builder.WriteString("Top features:\n")
		limit := len(r.Importances)
		if limit > 5 {
			limit = 5
		}
		for _, entry := range r.Importances[:limit] {
			builder.WriteString(fmt.Sprintf("  %s: %.4f\n", entry.Feature, entry.Weight))
		}
	}
	if r.Diagnostics != nil {
		builder.WriteString(fmt.Sprintf("ADF statistic: %.3f (p=%.3f)\n", r.Diagnostics.ADF.Statistic, r.Diagnostics.ADF.PValue))
	}
	return builder.String()
}

// WritePredictionsCSV exports the out-of-fold predictions table.
func WritePredictionsCSV(r *Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	var builder strings.Builder
	builder.WriteString("actual,predicted,probability\n")
	for _, p := range r.Predictions {
		builder.WriteString(fmt.Sprintf("%d,%d,%.6f\n", p.Actual, p.Predicted, p.Probability))
	}
	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}

// WriteJSON exports the full report payload.
func WriteJSON(r *Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
