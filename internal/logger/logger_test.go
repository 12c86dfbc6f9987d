package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("error")
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("verbose")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestPipelineLoggerDataAligned(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogDataAligned(500, 510, 495)

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "pipeline", entry["component"])
	assert.Equal(t, float64(495), entry["aligned_rows"])
	assert.Equal(t, "Price series aligned", entry["msg"])
}

func TestPipelineLoggerFoldEvaluated(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogFoldEvaluated(3, 300, 80, 0.55, false)

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, float64(3), entry["fold"])
	assert.Equal(t, 0.55, entry["accuracy"])
	assert.Equal(t, false, entry["skipped"])
}

func TestPipelineLoggerRunCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogRunCompleted("ensemble", 5, 1, map[string]float64{"accuracy": 0.52}, 120.5)

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "ensemble", entry["model"])
	assert.Equal(t, float64(1), entry["skipped_folds"])
}
