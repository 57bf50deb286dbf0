package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger — logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Calculators — per-calculator override files
	Calculators CalculatorsConfig `mapstructure:"calculators"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level — log level: debug, info, warn, warning, error.
	// Value is case-insensitive but checked in lowercase.
	Level string `mapstructure:"level"`
	// File — path of the rotating log file. Empty means stdout only.
	File string `mapstructure:"file"`
	// MaxSize — maximum log file size in MB before rotation (default 50).
	MaxSize int `mapstructure:"max_size"`
	// MaxBackups — maximum number of rotated files to keep (default 5).
	MaxBackups int `mapstructure:"max_backups"`
}

// CalculatorFiles points at optional YAML override files for one
// calculator: weight vector, consistency heuristics and recommendation
// rules. Empty paths keep the built-in tables.
type CalculatorFiles struct {
	Weights         string `mapstructure:"weights"`
	Heuristics      string `mapstructure:"heuristics"`
	Recommendations string `mapstructure:"recommendations"`
}

// CalculatorsConfig groups the override files by calculator.
type CalculatorsConfig struct {
	Equipment CalculatorFiles `mapstructure:"equipment"`
	Warping   CalculatorFiles `mapstructure:"warping"`
	Benchmark CalculatorFiles `mapstructure:"benchmark"`
}

// Validate checks the correctness of the entire application configuration.
// Calls validation for each nested structure and returns the first detected
// error. Returns nil if the configuration is valid.
func (c *AppConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks the correctness of the logger configuration.
// An empty level defaults to info; otherwise the level must be one of the
// supported values (case-insensitive).
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		l.Level = "info"
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	if l.MaxSize < 0 {
		return errors.New("logger.max_size: must not be negative")
	}
	if l.MaxSize == 0 {
		l.MaxSize = 50
	}
	if l.MaxBackups < 0 {
		return errors.New("logger.max_backups: must not be negative")
	}
	if l.MaxBackups == 0 {
		l.MaxBackups = 5
	}

	return nil
}

// Default returns the configuration used when no config file is given:
// info-level logging to stdout and all built-in calculator tables.
func Default() *AppConfig {
	config := AppConfig{}
	config.Logger.Level = "info"
	config.Logger.MaxSize = 50
	config.Logger.MaxBackups = 5
	return &config
}

// LoadConfig loads configuration from the specified file using Viper.
// Supports YAML format. Also includes environment variable loading
// (AutomaticEnv), which can override values from the file.
//
// Returns a pointer to AppConfig or an error if:
// - the file is not found or inaccessible
// - the configuration has invalid format
// - one of the sections fails validation
func LoadConfig(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
