// Package config loads and validates the YAML configuration of a run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-docpost/internal/fileutil"
	"github.com/alnah/go-docpost/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Run policies.
const (
	PolicyFailFast = "fail-fast"
	PolicyContinue = "continue"
)

// PolicyNames maps every accepted spelling of run.policy, lower-cased,
// to its canonical name.
var PolicyNames = map[string]string{
	PolicyFailFast:      PolicyFailFast,
	"failfast":          PolicyFailFast,
	PolicyContinue:      PolicyContinue,
	"continue-on-error": PolicyContinue,
}

// Field limits.
const (
	MaxPathLength = 4096
	MaxNameLength = 100 // element ids, attribute names, classes
	MaxWorkers    = 32
	MaxAliases    = 64
)

// Defaults applied to empty fields.
const (
	DefaultInputDir      = "build/illuaminate"
	DefaultOutputDir     = "build/jsxDocs"
	DefaultElementID     = "data-export"
	DefaultExampleMarker = "data-lua-kind"
	DefaultExampleClass  = "lua-example"
)

// Config holds all configuration for a processing run.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Export     ExportConfig     `yaml:"export"`
	Parse      ParseConfig      `yaml:"parse"`
	Highlight  HighlightConfig  `yaml:"highlight"`
	Components ComponentsConfig `yaml:"components"`
	Run        RunConfig        `yaml:"run"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Assets     AssetsConfig     `yaml:"assets"`
}

// InputConfig defines where pages are read from.
type InputConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig defines where processed pages are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ExportConfig defines the data export embedded into every page.
type ExportConfig struct {
	Path      string `yaml:"path"`      // JSON file; empty embeds "{}"
	ElementID string `yaml:"elementId"` // id of the <script> block
}

// ParseConfig defines parser options.
type ParseConfig struct {
	Strict bool `yaml:"strict"` // fail pages with parse diagnostics
}

// HighlightConfig defines code block highlighting.
type HighlightConfig struct {
	Enabled     *bool             `yaml:"enabled,omitempty"` // nil = enabled
	ClassPrefix string            `yaml:"classPrefix"`
	Aliases     map[string]string `yaml:"aliases"` // language marker -> lexer name
}

// IsEnabled reports whether highlighting runs. Unset means enabled.
func (h HighlightConfig) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// ComponentsConfig configures the component set.
type ComponentsConfig struct {
	Example ExampleConfig `yaml:"example"`
}

// ExampleConfig configures the example wrapper.
type ExampleConfig struct {
	Marker string `yaml:"marker"`
	Class  string `yaml:"class"`
}

// RunConfig defines scheduling of the run.
type RunConfig struct {
	Workers int    `yaml:"workers"` // 0 = auto
	Policy  string `yaml:"policy"`  // fail-fast | continue
}

// MetricsConfig defines where metrics are written.
type MetricsConfig struct {
	File string `yaml:"file"` // empty = no metrics
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks values and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	paths := []struct{ field, value string }{
		{"input.dir", c.Input.Dir},
		{"output.dir", c.Output.Dir},
		{"export.path", c.Export.Path},
		{"metrics.file", c.Metrics.File},
		{"assets.basePath", c.Assets.BasePath},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.field, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateToken("export.elementId", c.Export.ElementID); err != nil {
		return err
	}
	if err := validateToken("components.example.marker", c.Components.Example.Marker); err != nil {
		return err
	}
	if err := validateToken("components.example.class", c.Components.Example.Class); err != nil {
		return err
	}
	if err := validateFieldLength("highlight.classPrefix", c.Highlight.ClassPrefix, MaxNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Highlight.ClassPrefix, " \t\n\"") {
		return fmt.Errorf("%w: highlight.classPrefix %q contains whitespace or quotes", ErrInvalidValue, c.Highlight.ClassPrefix)
	}

	if len(c.Highlight.Aliases) > MaxAliases {
		return fmt.Errorf("%w: highlight.aliases has %d entries (max %d)", ErrInvalidValue, len(c.Highlight.Aliases), MaxAliases)
	}
	for from, to := range c.Highlight.Aliases {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return fmt.Errorf("%w: highlight.aliases: empty alias %q -> %q", ErrInvalidValue, from, to)
		}
	}

	if c.Run.Workers < 0 || c.Run.Workers > MaxWorkers {
		return fmt.Errorf("%w: run.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Run.Workers)
	}
	if policy := strings.ToLower(strings.TrimSpace(c.Run.Policy)); policy != "" {
		if _, ok := PolicyNames[policy]; !ok {
			return fmt.Errorf("%w: run.policy %q (must be %s or %s)", ErrInvalidValue, c.Run.Policy, PolicyFailFast, PolicyContinue)
		}
	}

	return nil
}

// validateToken checks a value used as an HTML id, attribute name or class.
// Empty values fall back to defaults and are accepted.
func validateToken(fieldName, value string) error {
	if err := validateFieldLength(fieldName, value, MaxNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(value, " \t\n\r\f\"'<>=/") {
		return fmt.Errorf("%w: %s %q contains a forbidden character", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every empty field that has a default.
func (c *Config) applyDefaults() {
	setDefault(&c.Input.Dir, DefaultInputDir)
	setDefault(&c.Output.Dir, DefaultOutputDir)
	setDefault(&c.Export.ElementID, DefaultElementID)
	setDefault(&c.Components.Example.Marker, DefaultExampleMarker)
	setDefault(&c.Components.Example.Class, DefaultExampleClass)
	setDefault(&c.Run.Policy, PolicyFailFast)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// SearchPaths lists the files tried for a config name, in order:
// the current directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "docpost", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
