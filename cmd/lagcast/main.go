package main

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/lagcast/internal/config"
	"github.com/yourusername/lagcast/internal/dataset"
	"github.com/yourusername/lagcast/internal/eval"
	"github.com/yourusername/lagcast/internal/feature"
	applogger "github.com/yourusername/lagcast/internal/logger"
	"github.com/yourusername/lagcast/internal/metrics"
	"github.com/yourusername/lagcast/internal/model"
	"github.com/yourusername/lagcast/internal/report"
	"github.com/yourusername/lagcast/internal/split"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config

	// Flag overrides applied on top of the loaded configuration.
	flagModel     string
	flagFolds     int
	flagSeed      int64
	flagLags      []int
	flagDirection string
	flagTarget    string
	flagIndex     string
	flagOutput    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "Classifier variant: linear, tree or ensemble")
	rootCmd.Flags().IntVar(&flagFolds, "folds", 0, "Number of walk-forward folds")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", -1, "Random seed for stochastic model variants")
	rootCmd.Flags().IntSliceVar(&flagLags, "lags", nil, "Lag offsets for feature construction")
	rootCmd.Flags().StringVar(&flagDirection, "lag-direction", "", "Lag direction: past or legacy")
	rootCmd.Flags().StringVar(&flagTarget, "target", "", "Path to the target instrument CSV")
	rootCmd.Flags().StringVar(&flagIndex, "index", "", "Path to the reference index CSV")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "Directory for result exports")

	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "lagcast",
	Short: "Walk-forward direction classification for daily price series",
	Long: `Loads two daily price tables, builds lagged return features and evaluates
a direction classifier with expanding-window cross-validation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger = applogger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lagcast %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	cfg = loaded
	applyFlagOverrides()
	return config.Validate(cfg)
}

func applyFlagOverrides() {
	if flagModel != "" {
		cfg.Model.Name = flagModel
	}
	if flagFolds > 0 {
		cfg.Evaluation.Folds = flagFolds
	}
	if flagSeed >= 0 {
		cfg.Model.Seed = flagSeed
	}
	if len(flagLags) > 0 {
		cfg.Features.Lags = flagLags
	}
	if flagDirection != "" {
		cfg.Features.LagDirection = flagDirection
	}
	if flagTarget != "" {
		cfg.Data.TargetPath = flagTarget
	}
	if flagIndex != "" {
		cfg.Data.IndexPath = flagIndex
	}
	if flagOutput != "" {
		cfg.Output.Directory = flagOutput
	}
}

func runPipeline() error {
	start := time.Now()
	pl := applogger.NewPipelineLogger(logger)

	if cfg.Metrics.Enabled {
		startMetricsServer()
	}

	rep, err := executeRun(pl)
	if err != nil {
		metrics.RecordRun(cfg.Model.Name, "failure")
		return err
	}

	metrics.RecordRun(cfg.Model.Name, "success")
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	pl.LogRunCompleted(cfg.Model.Name, len(rep.Folds), rep.SkippedFolds, rep.MeanMetrics, float64(time.Since(start).Milliseconds()))

	fmt.Print(report.ConsoleReport(rep))
	return nil
}

func executeRun(pl *applogger.PipelineLogger) (*report.Report, error) {
	target, err := dataset.LoadSeriesFile(cfg.Data.TargetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load target series: %w", err)
	}
	index, err := dataset.LoadSeriesFile(cfg.Data.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load index series: %w", err)
	}
	metrics.RowsParsedTotal.Add(float64(len(target) + len(index)))

	records, err := dataset.Align(target, index)
	if err != nil {
		return nil, fmt.Errorf("failed to align series: %w", err)
	}
	pl.LogDataAligned(len(target), len(index), len(records))

	diag := feature.Diagnose(records, cfg.Features.ACFLags)

	matrix, err := feature.Build(records, feature.Config{
		Lags:      cfg.Features.Lags,
		Direction: feature.LagDirection(cfg.Features.LagDirection),
		MinRows:   cfg.Evaluation.Folds + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build features: %w", err)
	}
	pl.LogFeaturesBuilt(matrix.NumRows(), matrix.NumFeatures(), cfg.Features.Lags, cfg.Features.LagDirection)

	folds, err := split.Split(matrix.NumRows(), cfg.Evaluation.Folds)
	if err != nil {
		return nil, fmt.Errorf("failed to split samples: %w", err)
	}

	factory, err := model.Factory(cfg.Model.Name, cfg.Model.Seed)
	if err != nil {
		return nil, err
	}

	result, err := eval.Evaluate(matrix, folds, factory, eval.Options{
		DegeneratePolicy: eval.DegeneratePolicy(cfg.Evaluation.DegeneratePolicy),
	})
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	for _, fr := range result.Folds {
		pl.LogFoldEvaluated(fr.Fold, fr.TrainSize, fr.TestSize, fr.Metrics.Accuracy, fr.Skipped)
	}

	rep := report.Assemble(result, matrix.Names, cfg.Model.Name, diag)

	if cfg.Output.WritePredictions {
		path := filepath.Join(cfg.Output.Directory, "cv_predictions.csv")
		if err := report.WritePredictionsCSV(rep, path); err != nil {
			return nil, fmt.Errorf("failed to write predictions: %w", err)
		}
		logger.WithField("path", path).Info("Predictions exported")
	}
	if cfg.Output.WriteReport {
		path := filepath.Join(cfg.Output.Directory, "report.json")
		if err := report.WriteJSON(rep, path); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
		logger.WithField("path", path).Info("Report exported")
	}

	return rep, nil
}

// startMetricsServer exposes the Prometheus registry for the lifetime of the
// process. Scrapes race a short-lived run; the endpoint mainly serves runs
// launched by an external scheduler that keeps the binary resident.
func startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	logger.WithField("addr", addr).Info("Starting metrics server")
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.WithError(err).Warn("Metrics server stopped")
		}
	}()
}
