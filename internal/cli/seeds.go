package cli

import (
	"errors"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/evmscan/internal/output"
	"github.com/mrz1836/evmscan/internal/secure"
	"github.com/mrz1836/evmscan/internal/wallet"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// seedsCmd is the parent command for seed list operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var seedsCmd = &cobra.Command{
	Use:   "seeds",
	Short: "Inspect and protect the seed list",
}

// seedsCheckCmd validates every mnemonic of a seed list.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var seedsCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate the seed list and show derived addresses",
	Long: `Validate every mnemonic of the seed list (word list, word count, checksum)
and print the address a scan would check for it. Misspelled words get a
closest-word suggestion. Mnemonics are never printed.

Example:
  evmscan seeds check
  evmscan seeds check seeds.txt.age`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeedsCheck,
}

// seedsSealCmd encrypts a plaintext seed list.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var seedsSealCmd = &cobra.Command{
	Use:   "seal <src> [dst]",
	Short: "Encrypt a seed list with a passphrase",
	Long: `Encrypt a plaintext seed list with age (scrypt passphrase) so scans can read
it without the mnemonics ever sitting on disk in clear text. dst defaults to
src with ".age" appended and must not exist yet. The plaintext file is left
in place; remove it yourself once the sealed copy is verified.

Example:
  evmscan seeds seal seeds.txt
  evmscan seeds check seeds.txt.age`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSeedsSeal,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(seedsCmd)
	seedsCmd.AddCommand(seedsCheckCmd)
	seedsCmd.AddCommand(seedsSealCmd)
}

// seedStatus is the validation outcome of one seed list line.
type seedStatus struct {
	Line       int    `json:"line"`
	Valid      bool   `json:"valid"`
	Address    string `json:"address,omitempty"`
	Problem    string `json:"problem,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func runSeedsCheck(cmd *cobra.Command, args []string) error {
	path := cfg.Resolve(cfg.Inputs.SeedsFile)
	if len(args) == 1 {
		path = args[0]
	}

	secrets, err := wallet.LoadSecrets(path, seedsPassphrase)
	if err != nil {
		return err
	}

	statuses := checkSeeds(secrets)
	if err := emit(cmd, statuses, func(w io.Writer) error {
		return displaySeedsText(w, statuses)
	}); err != nil {
		return err
	}

	for _, s := range statuses {
		if !s.Valid {
			return scanerr.WithDetails(scanerr.ErrInvalidMnemonic, map[string]string{
				"first_invalid_line": strconv.Itoa(s.Line),
			})
		}
	}
	return nil
}

// checkSeeds validates and derives every secret. Line numbers count
// non-blank lines from 1.
func checkSeeds(secrets []string) []seedStatus {
	statuses := make([]seedStatus, 0, len(secrets))
	for i, secret := range secrets {
		s := seedStatus{Line: i + 1}
		address, err := wallet.DeriveAddress(secret)
		if err != nil {
			var se *scanerr.ScanError
			if errors.As(err, &se) {
				s.Problem = se.Message
				s.Suggestion = se.Suggestion
				keys := make([]string, 0, len(se.Details))
				for k := range se.Details {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					s.Problem += " (" + k + ": " + se.Details[k] + ")"
				}
			} else {
				s.Problem = err.Error()
			}
		} else {
			s.Valid = true
			s.Address = address
		}
		statuses = append(statuses, s)
	}
	return statuses
}

func displaySeedsText(w io.Writer, statuses []seedStatus) error {
	table := output.NewTable("LINE", "STATUS", "ADDRESS / PROBLEM")
	valid := 0
	for _, s := range statuses {
		if s.Valid {
			valid++
			table.AddRow(strconv.Itoa(s.Line), "ok", s.Address)
			continue
		}
		table.AddRow(strconv.Itoa(s.Line), "invalid", s.Problem)
	}
	if err := table.Render(w); err != nil {
		return err
	}

	for _, s := range statuses {
		if s.Suggestion != "" {
			out(w, "\nLine %d:\n%s\n", s.Line, s.Suggestion)
		}
	}

	out(w, "\n%d of %d seeds valid\n", valid, len(statuses))
	return nil
}

func runSeedsSeal(cmd *cobra.Command, args []string) error {
	src := args[0]
	dst := src + secure.FileExtension
	if len(args) == 2 {
		dst = args[1]
	}
	if wallet.IsSealed(src) {
		return scanerr.WithSuggestion(
			scanerr.WithDetails(scanerr.ErrInvalidInput, map[string]string{"path": src}),
			"the seed file is already sealed",
		)
	}
	if !wallet.IsSealed(dst) {
		return scanerr.WithSuggestion(
			scanerr.WithDetails(scanerr.ErrInvalidInput, map[string]string{"path": dst}),
			"sealed seed files must end in "+secure.FileExtension+" so scans know to decrypt them",
		)
	}

	pass, err := promptNewPasswordFn()
	if err != nil {
		return err
	}
	defer secure.Zero(pass)

	n, err := wallet.SealSecrets(src, dst, string(pass))
	if err != nil {
		return err
	}

	logger.Info("sealed %d seeds into %s", n, dst)
	out(cmd.OutOrStdout(), "Sealed %d seeds into %s\n", n, dst)
	return nil
}
