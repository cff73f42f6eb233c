package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "hfmetrics/internal/errors"
	"hfmetrics/pkg/contracts/domain"
)

// Config is the complete engine configuration.
type Config struct {
	Detection  DetectionConfig  `yaml:"detection" envconfig:"DETECTION"`
	Correction CorrectionConfig `yaml:"correction" envconfig:"CORRECTION"`
	Reporting  ReportingConfig  `yaml:"reporting" envconfig:"REPORTING"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// DetectionConfig parameterizes IQR outlier detection.
type DetectionConfig struct {
	IQRMultiplier float64 `yaml:"iqr_multiplier" envconfig:"IQR_MULTIPLIER" validate:"gt=0"`
	MinGroupSize  int     `yaml:"min_group_size" envconfig:"MIN_GROUP_SIZE" validate:"min=1"`
}

// CorrectionConfig selects and parameterizes the correction strategy.
type CorrectionConfig struct {
	Method          string  `yaml:"method" envconfig:"METHOD" validate:"oneof=mean median moving_average winsorize"`
	Window          int     `yaml:"window" envconfig:"WINDOW" validate:"min=1"`
	LowerPercentile float64 `yaml:"lower_percentile" envconfig:"LOWER_PERCENTILE" validate:"gte=0,lt=50"`
	UpperPercentile float64 `yaml:"upper_percentile" envconfig:"UPPER_PERCENTILE" validate:"gt=50,lte=100"`
}

// ReportingConfig parameterizes the classification policies.
type ReportingConfig struct {
	SilenceWindow    int     `yaml:"silence_window" envconfig:"SILENCE_WINDOW" validate:"min=1"`
	QualityThreshold float64 `yaml:"quality_threshold" envconfig:"QUALITY_THRESHOLD" validate:"gte=0,lte=1"`
}

// LoggingConfig configures the slog handler built by Logger.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Detection:  DetectionConfig{IQRMultiplier: 1.5, MinGroupSize: 3},
		Correction: CorrectionConfig{Method: string(domain.MethodMedian), Window: 5, LowerPercentile: 5, UpperPercentile: 95},
		Reporting:  ReportingConfig{SilenceWindow: 6, QualityThreshold: 0.25},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and HFM_-prefixed environment variables, then validates it. An
// empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("HFM", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration. Every failure is a fatal
// ConfigError naming the offending field.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.NewConfig(fe.Namespace(), fmt.Sprintf("failed %q constraint", fe.Tag()), fe.Value())
		}
		return apperrors.NewConfig("config", err.Error(), nil)
	}

	if !domain.CorrectionMethod(c.Correction.Method).IsValid() {
		return apperrors.NewConfig("correction.method", "unknown correction method", c.Correction.Method)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}
