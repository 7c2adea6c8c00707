package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome            = "EVMSCAN_HOME"
	EnvLogLevel        = "EVMSCAN_LOG_LEVEL"
	EnvOutputFormat    = "EVMSCAN_OUTPUT_FORMAT"
	EnvConcurrency     = "EVMSCAN_CONCURRENCY"
	EnvResultsDir      = "EVMSCAN_RESULTS_DIR"
	EnvResultsDB       = "EVMSCAN_RESULTS_DB"
	EnvSeedsPassphrase = "EVMSCAN_SEEDS_PASSPHRASE" // #nosec G101 -- variable name, not a credential
)

// ApplyEnvironment applies environment variable overrides to the configuration.
// Malformed numeric values are ignored. The seed passphrase is read on demand
// by SeedsPassphrase and is never stored in the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvHome)); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			cfg.Scan.Concurrency = n
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvResultsDir)); v != "" {
		cfg.Results.Dir = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvResultsDB)); v != "" {
		cfg.Results.Database = v
	}
}

// SeedsPassphrase returns the sealed seed file passphrase from the
// environment, if set.
func SeedsPassphrase() (string, bool) {
	v, ok := os.LookupEnv(EnvSeedsPassphrase)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
