package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lcmartin/studioshift/pkg/core/scheduler"
)

// Config represents the application configuration
type Config struct {
	DatabaseURL      string             `yaml:"databaseURL" validate:"required"`
	GeneratorVersion string             `yaml:"generatorVersion,omitempty" validate:"omitempty,oneof=v1 v2"`
	Weights          *scheduler.Weights `yaml:"weights,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from studioshift.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// applyDefaults fills in the generator version and any scoring weights the
// config file left unset.
func applyDefaults(cfg *Config) {
	if cfg.GeneratorVersion == "" {
		cfg.GeneratorVersion = string(scheduler.VersionV2)
	}
	defaults := scheduler.DefaultWeights()
	if cfg.Weights == nil {
		cfg.Weights = &defaults
		return
	}
	if cfg.Weights.WeekendPreference == 0 {
		cfg.Weights.WeekendPreference = defaults.WeekendPreference
	}
	if cfg.Weights.HourTarget == 0 {
		cfg.Weights.HourTarget = defaults.HourTarget
	}
	if cfg.Weights.Fairness == 0 {
		cfg.Weights.Fairness = defaults.Fairness
	}
	if cfg.Weights.ClopenPenalty == 0 {
		cfg.Weights.ClopenPenalty = defaults.ClopenPenalty
	}
	if cfg.Weights.ConsecutivePenalty == 0 {
		cfg.Weights.ConsecutivePenalty = defaults.ConsecutivePenalty
	}
}

// findConfigFile searches for studioshift.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "studioshift.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
