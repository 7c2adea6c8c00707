package cli

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/evmscan/internal/output"
	"github.com/mrz1836/evmscan/internal/results"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// resultsQueryTimeout bounds one query against the results database.
const resultsQueryTimeout = 30 * time.Second

// resultsCmd is the parent command for result database queries.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query the results database",
	Long: `Inspect runs and findings recorded by "evmscan scan --db". The database
never holds mnemonics; use results.txt for those.`,
}

// resultsRunsCmd lists recorded runs.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var resultsRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded scan runs, newest first",
	Long: `List recorded scan runs, newest first.

Example:
  evmscan results runs --db results.db
  evmscan results runs --limit 5 -o json`,
	Args: cobra.NoArgs,
	RunE: runResultsRuns,
}

// resultsFindingsCmd lists the findings of one run.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var resultsFindingsCmd = &cobra.Command{
	Use:   "findings [run-id]",
	Short: "List the findings of a run (default: the latest run)",
	Long: `List the balances recorded in one run. Without a run ID the newest run
is shown.

Example:
  evmscan results findings
  evmscan results findings 0b4c8f2e-6d7f-4bb5-9a57-2a1f7e0d9c11`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResultsFindings,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	resultsDatabase string
	resultsLimit    int
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsRunsCmd)
	resultsCmd.AddCommand(resultsFindingsCmd)

	resultsCmd.PersistentFlags().StringVar(&resultsDatabase, "db", "", "SQLite database (default from results.database)")
	resultsRunsCmd.Flags().IntVar(&resultsLimit, "limit", 20, "maximum runs to list (0 for all)")
}

// openResultsStore opens an existing results database.
func openResultsStore(cmd *cobra.Command) (*results.SQLiteStore, error) {
	path := cfg.Resolve(cfg.Results.Database)
	if cmd.Flags().Changed("db") {
		path = resultsDatabase
	}
	if path == "" {
		return nil, scanerr.WithSuggestion(
			scanerr.ErrInvalidInput,
			"pass --db or set results.database",
		)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, scanerr.WithDetails(scanerr.ErrNotFound, map[string]string{"path": path})
	}

	ctx, cancel := contextWithTimeout(cmd, resultsQueryTimeout)
	defer cancel()
	return results.OpenStore(ctx, path)
}

func runResultsRuns(cmd *cobra.Command, _ []string) error {
	store, err := openResultsStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := contextWithTimeout(cmd, resultsQueryTimeout)
	defer cancel()

	runs, err := store.Runs(ctx, resultsLimit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []results.Run{}
	}

	return emit(cmd, runs, func(w io.Writer) error {
		return displayRunsText(w, runs)
	})
}

func displayRunsText(w io.Writer, runs []results.Run) error {
	if len(runs) == 0 {
		outln(w, "No runs recorded.")
		return nil
	}

	table := output.NewTable("RUN", "STARTED", "FINISHED", "CHAINS", "SEEDS", "FINDINGS").AlignRight(3, 4, 5)
	for _, r := range runs {
		finished := "-"
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Format(time.DateTime)
		}
		table.AddRow(
			r.ID,
			r.StartedAt.Format(time.DateTime),
			finished,
			strconv.Itoa(r.CatalogSize),
			strconv.Itoa(r.Targets),
			strconv.Itoa(r.Findings),
		)
	}
	return table.Render(w)
}

func runResultsFindings(cmd *cobra.Command, args []string) error {
	store, err := openResultsStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := contextWithTimeout(cmd, resultsQueryTimeout)
	defer cancel()

	var runID string
	if len(args) == 1 {
		runID = args[0]
	} else {
		latest, err := store.Runs(ctx, 1)
		if err != nil {
			return err
		}
		if len(latest) == 0 {
			return scanerr.WithSuggestion(scanerr.ErrNotFound, "no runs recorded yet")
		}
		runID = latest[0].ID
	}

	findings, err := store.Findings(ctx, runID)
	if err != nil {
		return err
	}
	if findings == nil {
		findings = []results.StoredFinding{}
	}

	return emit(cmd, findings, func(w io.Writer) error {
		return displayFindingsText(w, runID, findings)
	})
}

func displayFindingsText(w io.Writer, runID string, findings []results.StoredFinding) error {
	out(w, "Run %s\n\n", runID)
	if len(findings) == 0 {
		outln(w, "No balances found.")
		return nil
	}

	table := output.NewTable("ADDRESS", "CHAIN", "AMOUNT", "SYMBOL", "BUCKET").AlignRight(2)
	for _, f := range findings {
		table.AddRow(f.Address, f.Chain, f.Amount, f.Symbol, string(f.Bucket))
	}
	return table.Render(w)
}
