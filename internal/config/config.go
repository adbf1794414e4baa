// Package config loads engine settings from the environment. Flags in
// cmd/gorca override whatever is loaded here.
package config

import (
	"os"
	"strconv"

	"gorca/domain/anomaly"
	"gorca/internal/errors"
	"gorca/internal/screen"
)

// Config is the complete runtime configuration.
type Config struct {
	Discovery DiscoveryConfig
	Scan      ScanConfig
	Database  DatabaseConfig
	Paths     PathConfig
}

// DiscoveryConfig tunes the discovery engine.
type DiscoveryConfig struct {
	Method   screen.Method
	TriggerZ float64
	Shuffles int
	Workers  int
	Seed     int64
	FailFast bool
}

// ScanConfig bounds the threshold sweep.
type ScanConfig struct {
	Min  float64
	Max  float64
	Step float64
}

// Range converts to the domain scan range.
func (s ScanConfig) Range() anomaly.ScanRange {
	return anomaly.ScanRange{Min: s.Min, Max: s.Max, Step: s.Step}
}

// DatabaseConfig holds the optional sample-index connection.
type DatabaseConfig struct {
	URL string // empty means no Postgres lookup
}

// PathConfig holds expression input files.
type PathConfig struct {
	ObservationalFile  string
	InterventionalFile string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	method, err := screen.ParseMethod(getEnvOrDefault("GORCA_SCREEN_METHOD", screen.MethodCV.String()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load screening method")
	}

	config := &Config{
		Discovery: DiscoveryConfig{
			Method:   method,
			TriggerZ: getEnvFloatOrDefault("GORCA_TRIGGER_Z", 1.5),
			Shuffles: getEnvIntOrDefault("GORCA_SHUFFLES", 1),
			Workers:  getEnvIntOrDefault("GORCA_WORKERS", 0), // 0 means NumCPU
			Seed:     int64(getEnvIntOrDefault("GORCA_SEED", 0)),
			FailFast: getEnvBoolOrDefault("GORCA_FAIL_FAST", false),
		},
		Scan: ScanConfig{
			Min:  getEnvFloatOrDefault("GORCA_SCAN_MIN", 0.1),
			Max:  getEnvFloatOrDefault("GORCA_SCAN_MAX", 5.0),
			Step: getEnvFloatOrDefault("GORCA_SCAN_STEP", 0.2),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Paths: PathConfig{
			ObservationalFile:  getEnvOrDefault("GORCA_OBS_FILE", ""),
			InterventionalFile: getEnvOrDefault("GORCA_INT_FILE", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Discovery.TriggerZ < 0 {
		return errors.ConfigInvalid("trigger Z-score must be non-negative")
	}
	if config.Discovery.Shuffles < 1 {
		return errors.ConfigInvalid("shuffle count must be at least 1")
	}
	if err := config.Scan.Range().Validate(); err != nil {
		return errors.Wrap(err, "invalid threshold scan range")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
