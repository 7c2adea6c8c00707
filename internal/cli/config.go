package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/evmscan/internal/config"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify evmscan configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.evmscan/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  evmscan config init
  evmscan config init --force`,
	RunE: runConfigInit,
}

// configShowCmd shows the effective configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the configuration after file, environment and flag overrides.

Example:
  evmscan config show
  evmscan config show -o json`,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its dot-separated path.

Examples:
  evmscan config get scan.concurrency
  evmscan config get inputs.chains_file`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value by its dot-separated path and save the file.
The resulting configuration must still validate.

Examples:
  evmscan config set scan.concurrency 8
  evmscan config set results.database ~/.evmscan/results.db
  evmscan config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(configHome)

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return scanerr.WithSuggestion(
			scanerr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	if err := config.Save(config.Defaults(), configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - inputs.seeds_file / inputs.chains_file: scan inputs")
	outln(w, "  - scan.concurrency: probes in flight per seed")
	outln(w, "  - results.dir / results.database: where findings go")
	outln(w, "  - logging.level: off, error, info or debug")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	return emit(cmd, cfg, func(w io.Writer) error {
		return displayConfigText(w, cfg)
	})
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, err := getConfigValue(cfg, args[0])
	if err != nil {
		return err
	}

	outln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, value := args[0], args[1]

	configPath := config.Path(configHome)
	current, err := config.Load(configPath)
	if err != nil {
		if !scanerr.Is(err, scanerr.ErrConfigNotFound) {
			return err
		}
		current = config.Defaults()
	}

	if err := setConfigValue(current, path, value); err != nil {
		return err
	}
	if err := current.Validate(); err != nil {
		return err
	}

	if err := config.Save(current, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out(cmd.OutOrStdout(), "Set %s = %s\n", path, value)
	return nil
}

// configKey reads and writes one configuration value as text.
type configKey struct {
	get func(c *config.Config) string
	set func(c *config.Config, v string) error
}

func stringKey(field func(c *config.Config) *string) configKey {
	return configKey{
		get: func(c *config.Config) string { return *field(c) },
		set: func(c *config.Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func intKey(field func(c *config.Config) *int) configKey {
	return configKey{
		get: func(c *config.Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return scanerr.WithDetails(scanerr.ErrInvalidInput, map[string]string{"value": v, "expected": "integer"})
			}
			*field(c) = n
			return nil
		},
	}
}

func floatKey(field func(c *config.Config) *float64) configKey {
	return configKey{
		get: func(c *config.Config) string { return strconv.FormatFloat(*field(c), 'f', -1, 64) },
		set: func(c *config.Config, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return scanerr.WithDetails(scanerr.ErrInvalidInput, map[string]string{"value": v, "expected": "number"})
			}
			*field(c) = f
			return nil
		},
	}
}

// configKeys maps dot paths to configuration fields.
//
//nolint:gochecknoglobals // static lookup table
var configKeys = map[string]configKey{
	"home":                         stringKey(func(c *config.Config) *string { return &c.Home }),
	"inputs.seeds_file":            stringKey(func(c *config.Config) *string { return &c.Inputs.SeedsFile }),
	"inputs.chains_file":           stringKey(func(c *config.Config) *string { return &c.Inputs.ChainsFile }),
	"scan.concurrency":             intKey(func(c *config.Config) *int { return &c.Scan.Concurrency }),
	"scan.tier_one_size":           intKey(func(c *config.Config) *int { return &c.Scan.TierOneSize }),
	"scan.tier_two_limit":          intKey(func(c *config.Config) *int { return &c.Scan.TierTwoLimit }),
	"scan.expand_threshold":        intKey(func(c *config.Config) *int { return &c.Scan.ExpandThreshold }),
	"scan.request_timeout_seconds": intKey(func(c *config.Config) *int { return &c.Scan.RequestTimeoutSeconds }),
	"scan.rate_limit_per_second":   floatKey(func(c *config.Config) *float64 { return &c.Scan.RateLimitPerSecond }),
	"scan.rate_limit_burst":        intKey(func(c *config.Config) *int { return &c.Scan.RateLimitBurst }),
	"derivation.path":              stringKey(func(c *config.Config) *string { return &c.Derivation.Path }),
	"results.dir":                  stringKey(func(c *config.Config) *string { return &c.Results.Dir }),
	"results.database":             stringKey(func(c *config.Config) *string { return &c.Results.Database }),
	"output.default_format":        stringKey(func(c *config.Config) *string { return &c.Output.DefaultFormat }),
	"logging.level":                stringKey(func(c *config.Config) *string { return &c.Logging.Level }),
	"logging.file":                 stringKey(func(c *config.Config) *string { return &c.Logging.File }),
}

func lookupConfigKey(path string) (configKey, error) {
	key, ok := configKeys[path]
	if !ok {
		return configKey{}, scanerr.WithSuggestion(
			scanerr.WithDetails(scanerr.ErrUnknownConfigKey, map[string]string{"path": path}),
			"valid paths: "+strings.Join(configPaths(), ", "),
		)
	}
	return key, nil
}

// configPaths returns every settable path, sorted.
func configPaths() []string {
	paths := make([]string, 0, len(configKeys))
	for p := range configKeys {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// getConfigValue retrieves a value from the config using dot notation.
func getConfigValue(c *config.Config, path string) (string, error) {
	key, err := lookupConfigKey(path)
	if err != nil {
		return "", err
	}
	return key.get(c), nil
}

// setConfigValue sets a value in the config using dot notation.
func setConfigValue(c *config.Config, path, value string) error {
	key, err := lookupConfigKey(path)
	if err != nil {
		return err
	}
	return key.set(c, value)
}

// displayConfigText shows the config as YAML.
func displayConfigText(w io.Writer, c *config.Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	out(w, "# %s\n", config.Path(configHome))
	_, err = w.Write(data)
	return err
}
