// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for pipeline stages.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogDataAligned logs the result of loading and joining the two price tables.
func (pl *PipelineLogger) LogDataAligned(targetRows, indexRows, alignedRows int) {
	pl.WithFields(logrus.Fields{
		"target_rows":  targetRows,
		"index_rows":   indexRows,
		"aligned_rows": alignedRows,
	}).Info("Price series aligned")
}

// LogFeaturesBuilt logs the shape of the constructed feature matrix.
func (pl *PipelineLogger) LogFeaturesBuilt(rows, features int, lags []int, direction string) {
	pl.WithFields(logrus.Fields{
		"rows":          rows,
		"features":      features,
		"lags":          lags,
		"lag_direction": direction,
	}).Info("Feature matrix built")
}

// LogFoldEvaluated logs a single walk-forward fold outcome.
func (pl *PipelineLogger) LogFoldEvaluated(fold, trainSize, testSize int, accuracy float64, skipped bool) {
	pl.WithFields(logrus.Fields{
		"fold":       fold,
		"train_size": trainSize,
		"test_size":  testSize,
		"accuracy":   accuracy,
		"skipped":    skipped,
	}).Debug("Fold evaluated")
}

// LogRunCompleted logs the aggregate outcome of a full evaluation run.
func (pl *PipelineLogger) LogRunCompleted(model string, folds, skippedFolds int, meanMetrics map[string]float64, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"model":         model,
		"folds":         folds,
		"skipped_folds": skippedFolds,
		"mean_metrics":  meanMetrics,
		"duration_ms":   durationMs,
	}).Info("Evaluation run completed")
}
