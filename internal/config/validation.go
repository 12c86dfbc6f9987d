// Package config provides configuration management for the lagcast pipeline.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("model", validateModel)
	_ = v.RegisterValidation("lagdirection", validateLagDirection)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateModel validates the classifier variant name
func validateModel(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	switch name {
	case "linear", "tree", "ensemble":
		return true
	default:
		return false
	}
}

// validateLagDirection validates the feature lag direction
func validateLagDirection(fl validator.FieldLevel) bool {
	direction := fl.Field().String()
	switch direction {
	case "past", "legacy":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Data.TargetPath == cfg.Data.IndexPath {
		return fmt.Errorf("target_path and index_path must name different files")
	}

	// A fold needs at least one training row on top of the fold count.
	maxLag := 0
	for _, lag := range cfg.Features.Lags {
		if lag > maxLag {
			maxLag = lag
		}
	}
	if maxLag >= 1000 {
		return fmt.Errorf("lag %d is unreasonably large for daily price data", maxLag)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		return fmt.Errorf("metrics.path is required when metrics are enabled")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "model":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: linear, tree, ensemble\n", field)
		case "lagdirection":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: past, legacy\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
