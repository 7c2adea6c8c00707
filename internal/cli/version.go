package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/evmscan/internal/version"
)

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := version.Get()
		return emit(cmd, info, func(w io.Writer) error {
			out(w, "evmscan %s\n", info)
			out(w, "%s %s\n", info.GoVersion, info.Platform)
			return nil
		})
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}
