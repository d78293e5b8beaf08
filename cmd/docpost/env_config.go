package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-docpost/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string // DOCPOST_CONFIG: config file name or path
	InputDir    string // DOCPOST_INPUT_DIR: rendered pages directory
	OutputDir   string // DOCPOST_OUTPUT_DIR: processed pages directory
	Export      string // DOCPOST_EXPORT: data export JSON file
	Workers     int    // DOCPOST_WORKERS: parallel workers
	Policy      string // DOCPOST_POLICY: fail-fast or continue
	MetricsFile string // DOCPOST_METRICS_FILE: Prometheus textfile
}

// knownEnvVars lists valid DOCPOST_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCPOST_CONFIG":       true,
	"DOCPOST_INPUT_DIR":    true,
	"DOCPOST_OUTPUT_DIR":   true,
	"DOCPOST_EXPORT":       true,
	"DOCPOST_WORKERS":      true,
	"DOCPOST_POLICY":       true,
	"DOCPOST_METRICS_FILE": true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("DOCPOST_CONFIG"),
		InputDir:    os.Getenv("DOCPOST_INPUT_DIR"),
		OutputDir:   os.Getenv("DOCPOST_OUTPUT_DIR"),
		Export:      os.Getenv("DOCPOST_EXPORT"),
		Policy:      os.Getenv("DOCPOST_POLICY"),
		MetricsFile: os.Getenv("DOCPOST_METRICS_FILE"),
	}

	// Invalid values are ignored, like unset ones.
	if workers := os.Getenv("DOCPOST_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for unrecognized DOCPOST_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DOCPOST_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies set environment values over the config file.
// Precedence: defaults < config file < env vars < CLI flags
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" {
		cfg.Input.Dir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Export != "" {
		cfg.Export.Path = env.Export
	}
	if env.Workers > 0 {
		cfg.Run.Workers = env.Workers
	}
	if env.Policy != "" {
		cfg.Run.Policy = env.Policy
	}
	if env.MetricsFile != "" {
		cfg.Metrics.File = env.MetricsFile
	}
}
