package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/evmscan/internal/chain/catalog"
	"github.com/mrz1836/evmscan/internal/output"
)

// chainsCmd lists the chain catalog.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List the chain catalog with tier membership",
	Long: `Load the chain catalog the way a scan does (testnets dropped) and show
which tier every chain belongs to. Chains past scan.tier_two_limit are never
probed.

Example:
  evmscan chains
  evmscan chains --chains ./chain.json -o json`,
	RunE: runChains,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var chainsFile string

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(chainsCmd)

	chainsCmd.Flags().StringVar(&chainsFile, "chains", "", "chain catalog JSON (default from inputs.chains_file)")
}

// chainEntry is one catalog row. Tier 0 marks a chain that is never probed.
type chainEntry struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	Tier     int    `json:"tier"`
	Endpoint string `json:"endpoint,omitempty"`
}

func runChains(cmd *cobra.Command, _ []string) error {
	path := cfg.Inputs.ChainsFile
	if cmd.Flags().Changed("chains") {
		path = chainsFile
	}

	c, err := catalog.Load(cfg.Resolve(path))
	if err != nil {
		return err
	}

	entries := catalogEntries(c, cfg.Scan.TierOneSize, cfg.Scan.TierTwoLimit)
	return emit(cmd, entries, func(w io.Writer) error {
		return displayChainsText(w, entries)
	})
}

// catalogEntries annotates every catalog chain with its tier.
func catalogEntries(c catalog.Catalog, tierOne, tierTwoLimit int) []chainEntry {
	first, second := c.Tiers(tierOne, tierTwoLimit)

	entries := make([]chainEntry, 0, len(c))
	for i, d := range c {
		tier := 0
		switch {
		case i < len(first):
			tier = 1
		case i < len(first)+len(second):
			tier = 2
		}
		endpoint, _ := d.PrimaryEndpoint()
		entries = append(entries, chainEntry{
			Position: i + 1,
			Name:     d.Name,
			Symbol:   d.Symbol,
			Decimals: d.Decimals,
			Tier:     tier,
			Endpoint: endpoint,
		})
	}
	return entries
}

func displayChainsText(w io.Writer, entries []chainEntry) error {
	table := output.NewTable("#", "CHAIN", "SYMBOL", "DECIMALS", "TIER", "RPC").AlignRight(0, 3)
	for _, e := range entries {
		tier := "-"
		if e.Tier > 0 {
			tier = strconv.Itoa(e.Tier)
		}
		endpoint := e.Endpoint
		if endpoint == "" {
			endpoint = "(none)"
		}
		table.AddRow(strconv.Itoa(e.Position), e.Name, e.Symbol, strconv.Itoa(e.Decimals), tier, endpoint)
	}
	if err := table.Render(w); err != nil {
		return err
	}
	out(w, "\n%d chains\n", len(entries))
	return nil
}
