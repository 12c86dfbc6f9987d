// Package config provides configuration management for the lagcast pipeline.
package config

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Data       DataConfig       `mapstructure:"data" validate:"required"`
	Features   FeaturesConfig   `mapstructure:"features" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	Output     OutputConfig     `mapstructure:"output" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataConfig locates the two input price tables
type DataConfig struct {
	TargetPath string `mapstructure:"target_path" validate:"required"`
	IndexPath  string `mapstructure:"index_path" validate:"required"`
}

// FeaturesConfig controls lagged feature construction
type FeaturesConfig struct {
	Lags []int `mapstructure:"lags" validate:"required,min=1,dive,gt=0"`
	// LagDirection is "past" (strictly backward-looking lags) or "legacy"
	// (the original shift-against-descending-order behavior, which leaks
	// calendar-future information relative to each row's nominal date).
	LagDirection string `mapstructure:"lag_direction" validate:"omitempty,lagdirection"`
	// ACFLags bounds the autocorrelation diagnostic depth.
	ACFLags int `mapstructure:"acf_lags" validate:"omitempty,gt=0"`
}

// ModelConfig selects and seeds the classifier variant
type ModelConfig struct {
	Name string `mapstructure:"name" validate:"required,model"`
	// Seed fixes the stochastic variants; identical runs with the same
	// seed produce byte-identical metric tables.
	Seed int64 `mapstructure:"seed"`
}

// EvaluationConfig controls the walk-forward loop
type EvaluationConfig struct {
	Folds            int    `mapstructure:"folds" validate:"required,min=2"`
	DegeneratePolicy string `mapstructure:"degenerate_policy" validate:"omitempty,oneof=fail skip"`
}

// OutputConfig controls result exports
type OutputConfig struct {
	Directory        string `mapstructure:"directory" validate:"required"`
	WritePredictions bool   `mapstructure:"write_predictions"`
	WriteReport      bool   `mapstructure:"write_report"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}
