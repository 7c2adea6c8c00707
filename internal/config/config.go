// Package config provides configuration management for evmscan.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/evmscan/internal/fileutil"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Home       string           `yaml:"home" json:"home"`
	Inputs     InputsConfig     `yaml:"inputs" json:"inputs"`
	Scan       ScanConfig       `yaml:"scan" json:"scan"`
	Derivation DerivationConfig `yaml:"derivation" json:"derivation"`
	Results    ResultsConfig    `yaml:"results" json:"results"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// InputsConfig names the seed list and chain catalog files.
type InputsConfig struct {
	SeedsFile  string `yaml:"seeds_file" json:"seeds_file"`
	ChainsFile string `yaml:"chains_file" json:"chains_file"`
}

// ScanConfig defines the probing policy.
type ScanConfig struct {
	Concurrency           int     `yaml:"concurrency" json:"concurrency"`
	TierOneSize           int     `yaml:"tier_one_size" json:"tier_one_size"`
	TierTwoLimit          int     `yaml:"tier_two_limit" json:"tier_two_limit"`
	ExpandThreshold       int     `yaml:"expand_threshold" json:"expand_threshold"`
	RequestTimeoutSeconds int     `yaml:"request_timeout_seconds" json:"request_timeout_seconds"`
	RateLimitPerSecond    float64 `yaml:"rate_limit_per_second" json:"rate_limit_per_second"`
	RateLimitBurst        int     `yaml:"rate_limit_burst" json:"rate_limit_burst"`
}

// DerivationConfig defines key derivation settings.
type DerivationConfig struct {
	Path string `yaml:"path" json:"path"`
}

// ResultsConfig defines where findings are written.
type ResultsConfig struct {
	Dir      string `yaml:"dir" json:"dir"`
	Database string `yaml:"database" json:"database"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// Load reads configuration from path on top of Defaults.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scanerr.WithDetails(scanerr.ErrConfigNotFound, map[string]string{"path": path})
		}
		return nil, err
	}

	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, scanerr.WithCause(scanerr.ErrConfigInvalid, err)
	}

	return cfg, nil
}

// Save writes cfg to path atomically, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string

	if c.Scan.Concurrency < 1 {
		problems = append(problems, "scan.concurrency must be at least 1")
	}
	if c.Scan.TierOneSize < 1 {
		problems = append(problems, "scan.tier_one_size must be at least 1")
	}
	if c.Scan.TierTwoLimit < c.Scan.TierOneSize {
		problems = append(problems, "scan.tier_two_limit must not be below scan.tier_one_size")
	}
	if c.Scan.ExpandThreshold < 1 {
		problems = append(problems, "scan.expand_threshold must be at least 1")
	}
	if c.Scan.RequestTimeoutSeconds < 1 {
		problems = append(problems, "scan.request_timeout_seconds must be at least 1")
	}
	if c.Scan.RateLimitPerSecond < 0 {
		problems = append(problems, "scan.rate_limit_per_second must not be negative")
	}
	if c.Derivation.Path != DefaultDerivationPath {
		problems = append(problems, "derivation.path supports only "+DefaultDerivationPath)
	}
	switch strings.ToLower(c.Output.DefaultFormat) {
	case "auto", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("output.default_format %q is not auto, text or json", c.Output.DefaultFormat))
	}
	if _, ok := parseLevel(c.Logging.Level); !ok {
		problems = append(problems, fmt.Sprintf("logging.level %q is not off, error, info or debug", c.Logging.Level))
	}

	if len(problems) == 0 {
		return nil
	}
	return scanerr.WithSuggestion(
		scanerr.WithCause(scanerr.ErrConfigInvalid, fmt.Errorf("%s", strings.Join(problems, "; "))), //nolint:err113 // aggregated message
		"run 'evmscan config show' to inspect the effective configuration",
	)
}

// Path returns the config file path inside home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Resolve expands a leading "~/" and makes relative paths relative to home.
// Empty input stays empty.
func (c *Config) Resolve(p string) string {
	if p == "" {
		return ""
	}
	p = ExpandHome(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ExpandHome(c.Home), p)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// DefaultHome returns the default evmscan home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".evmscan"
	}
	return filepath.Join(home, ".evmscan")
}
