package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mrz1836/evmscan/internal/config"
	"github.com/mrz1836/evmscan/internal/output"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testAddress  = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
)

// withTestGlobals installs fresh CLI globals rooted at a temp directory and
// restores the previous ones when the test ends. Tests using it must not run
// in parallel.
func withTestGlobals(t *testing.T, format output.Format) string {
	t.Helper()

	prevCfg, prevLogger, prevFormatter, prevHome := cfg, logger, formatter, configHome
	prevHomeDir, prevOutput, prevVerbose := homeDir, outputFormat, verbose
	t.Cleanup(func() {
		cfg, logger, formatter, configHome = prevCfg, prevLogger, prevFormatter, prevHome
		homeDir, outputFormat, verbose = prevHomeDir, prevOutput, prevVerbose
	})

	home := t.TempDir()
	cfg = config.Defaults()
	cfg.Home = home
	logger = config.NullLogger()
	formatter = output.NewFormatter(format, io.Discard)
	configHome = home
	return home
}

// newTestCommand returns a bare command writing to a buffer.
func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	return cmd, buf
}
