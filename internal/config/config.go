// Package config provides configuration management for djsim.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every load or validation failure.
var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

// Config holds application configuration
type Config struct {
	MaxQubits int          `yaml:"max_qubits" validate:"min=2,max=24"`
	Run       RunSection   `yaml:"run"`
	Sweep     SweepSection `yaml:"sweep"`
	Log       LogSection   `yaml:"log"`
}

// RunSection configures a single run.
type RunSection struct {
	Qubits int     `yaml:"qubits" validate:"min=1"`
	Oracle string  `yaml:"oracle" validate:"oneof=constant-zero balanced-xor"`
	Shots  int     `yaml:"shots" validate:"min=1"`
	Seed   *uint64 `yaml:"seed,omitempty"`
}

// SweepSection configures a grid of runs.
type SweepSection struct {
	Qubits      []int    `yaml:"qubits" validate:"min=1,dive,min=1"`
	Oracles     []string `yaml:"oracles" validate:"min=1,dive,oneof=constant-zero balanced-xor"`
	Parallelism int      `yaml:"parallelism" validate:"min=0"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration of the reference runs: four inputs,
// constant oracle, 1024 shots.
func Default() *Config {
	return &Config{
		MaxQubits: 16,
		Run: RunSection{
			Qubits: 4,
			Oracle: "constant-zero",
			Shots:  1024,
		},
		Sweep: SweepSection{
			Qubits:  []int{1, 2, 4, 8},
			Oracles: []string{"constant-zero", "balanced-xor"},
		},
		Log: LogSection{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when empty), then DJSIM_* environment variables. A .env file in
// the working directory is read if present. The result is not validated;
// callers apply flag overrides first and then call Validate.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Run.Qubits = getEnvAsInt("DJSIM_QUBITS", c.Run.Qubits)
	c.Run.Oracle = getEnv("DJSIM_ORACLE", c.Run.Oracle)
	c.Run.Shots = getEnvAsInt("DJSIM_SHOTS", c.Run.Shots)
	c.MaxQubits = getEnvAsInt("DJSIM_MAX_QUBITS", c.MaxQubits)
	c.Log.Level = getEnv("DJSIM_LOG_LEVEL", c.Log.Level)
	c.Log.Pretty = getEnvAsBool("DJSIM_LOG_PRETTY", c.Log.Pretty)

	if value := os.Getenv("DJSIM_SEED"); value != "" {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: DJSIM_SEED=%q: %v", ErrInvalidConfig, value, err)
		}
		c.Run.Seed = &seed
	}
	return nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Run.Qubits+1 > c.MaxQubits {
		return fmt.Errorf("%w: run.qubits=%d needs %d qubits, max_qubits is %d",
			ErrInvalidConfig, c.Run.Qubits, c.Run.Qubits+1, c.MaxQubits)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
