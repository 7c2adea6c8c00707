package config

// DefaultDerivationPath is the only supported derivation path.
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

// Defaults returns the default configuration. Relative file paths resolve
// against the working directory, matching the files a scan run leaves behind.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    ".",
		Inputs: InputsConfig{
			SeedsFile:  "seeds.txt",
			ChainsFile: "chain.json",
		},
		Scan: ScanConfig{
			Concurrency:           4,
			TierOneSize:           50,
			TierTwoLimit:          200,
			ExpandThreshold:       5,
			RequestTimeoutSeconds: 10,
			RateLimitPerSecond:    5,
			RateLimitBurst:        10,
		},
		Derivation: DerivationConfig{
			Path: DefaultDerivationPath,
		},
		Results: ResultsConfig{
			Dir:      ".",
			Database: "",
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
