package cli

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/evmscan/internal/chain"
	"github.com/mrz1836/evmscan/internal/chain/catalog"
	"github.com/mrz1836/evmscan/internal/chain/rpc"
	"github.com/mrz1836/evmscan/internal/config"
	"github.com/mrz1836/evmscan/internal/metrics"
	"github.com/mrz1836/evmscan/internal/output"
	"github.com/mrz1836/evmscan/internal/results"
	"github.com/mrz1836/evmscan/internal/scan"
	"github.com/mrz1836/evmscan/internal/wallet"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// scanCmd scans every seed in the seed list.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the chain catalog for every seed in the seed list",
	Long: `Derive the address of every mnemonic in the seed list and check its native
balance on each chain of the catalog, one seed at a time.

The first tier of the catalog is always probed. The second tier is probed only
when the first produced at least scan.expand_threshold distinct balances. A
chain is skipped once its currency already yielded a balance for the seed.

Findings are appended to results.txt and to low.txt, medium.txt or high.txt in
the results directory. With --db they are also stored, without the mnemonic,
in a SQLite database.

Seed files ending in .age are decrypted with the passphrase from
EVMSCAN_SEEDS_PASSPHRASE, or an interactive prompt.

Example:
  evmscan scan
  evmscan scan --seeds seeds.txt.age --chains chain.json --db results.db
  evmscan scan --concurrency 8 -o json`,
	RunE: runScan,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	scanSeedsFile   string
	scanChainsFile  string
	scanResultsDir  string
	scanDatabase    string
	scanConcurrency int
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanSeedsFile, "seeds", "", "seed list, one mnemonic per line (default from inputs.seeds_file)")
	scanCmd.Flags().StringVar(&scanChainsFile, "chains", "", "chain catalog JSON (default from inputs.chains_file)")
	scanCmd.Flags().StringVar(&scanResultsDir, "results-dir", "", "directory for result logs (default from results.dir)")
	scanCmd.Flags().StringVar(&scanDatabase, "db", "", "SQLite database for findings (default from results.database)")
	scanCmd.Flags().IntVar(&scanConcurrency, "concurrency", 0, "probes in flight per seed (default from scan.concurrency)")
}

// scanSettings is the effective input of one scan run.
type scanSettings struct {
	SeedsFile   string
	ChainsFile  string
	ResultsDir  string
	Database    string
	Timeout     time.Duration
	RateLimit   float64
	RateBurst   int
	ScanOptions scan.Options
}

// scanReport is the command output.
type scanReport struct {
	RunID       string           `json:"run_id,omitempty"`
	Chains      int              `json:"chains"`
	ResultsDir  string           `json:"results_dir"`
	Targets     []scan.Summary   `json:"targets"`
	Metrics     metrics.Snapshot `json:"metrics"`
	Interrupted bool             `json:"interrupted,omitempty"`
}

// resolveScanSettings layers changed flags over the loaded configuration.
func resolveScanSettings(cmd *cobra.Command, c *config.Config) scanSettings {
	s := scanSettings{
		SeedsFile:  c.Inputs.SeedsFile,
		ChainsFile: c.Inputs.ChainsFile,
		ResultsDir: c.Results.Dir,
		Database:   c.Results.Database,
		Timeout:    time.Duration(c.Scan.RequestTimeoutSeconds) * time.Second,
		RateLimit:  c.Scan.RateLimitPerSecond,
		RateBurst:  c.Scan.RateLimitBurst,
		ScanOptions: scan.Options{
			Concurrency:     c.Scan.Concurrency,
			TierOneSize:     c.Scan.TierOneSize,
			TierTwoLimit:    c.Scan.TierTwoLimit,
			ExpandThreshold: c.Scan.ExpandThreshold,
		},
	}

	flags := cmd.Flags()
	if flags.Changed("seeds") {
		s.SeedsFile = scanSeedsFile
	}
	if flags.Changed("chains") {
		s.ChainsFile = scanChainsFile
	}
	if flags.Changed("results-dir") {
		s.ResultsDir = scanResultsDir
	}
	if flags.Changed("db") {
		s.Database = scanDatabase
	}
	if flags.Changed("concurrency") {
		s.ScanOptions.Concurrency = scanConcurrency
	}

	s.SeedsFile = c.Resolve(s.SeedsFile)
	s.ChainsFile = c.Resolve(s.ChainsFile)
	s.ResultsDir = c.Resolve(s.ResultsDir)
	s.Database = c.Resolve(s.Database)
	return s
}

func runScan(cmd *cobra.Command, _ []string) error {
	s := resolveScanSettings(cmd, cfg)
	if s.ScanOptions.Concurrency < 1 {
		return scanerr.WithDetails(scanerr.ErrInvalidInput, map[string]string{
			"concurrency": strconv.Itoa(s.ScanOptions.Concurrency),
		})
	}

	ctx, stop := interruptContext(cmd)
	defer stop()

	report, err := executeScan(ctx, s, logger, metrics.Global)
	if report != nil {
		if emitErr := emit(cmd, report, func(w io.Writer) error {
			return displayScanText(w, report)
		}); emitErr != nil && err == nil {
			err = emitErr
		}
	}
	return err
}

// executeScan runs the whole pipeline for settings s. A non-nil report is
// returned whenever the scan started, including when it was interrupted.
func executeScan(ctx context.Context, s scanSettings, log *config.Logger, m *metrics.Metrics) (*scanReport, error) {
	descriptors, err := catalog.Load(s.ChainsFile)
	if err != nil {
		return nil, err
	}
	if len(descriptors) == 0 {
		return nil, scanerr.WithSuggestion(
			scanerr.WithDetails(scanerr.ErrCatalogInvalid, map[string]string{"path": s.ChainsFile}),
			"the catalog holds no mainnet chains",
		)
	}

	secrets, err := wallet.LoadSecrets(s.SeedsFile, seedsPassphrase)
	if err != nil {
		return nil, err
	}
	log.Info("loaded %d chains and %d seeds", len(descriptors), len(secrets))

	logSink, err := results.NewLogSink(s.ResultsDir)
	if err != nil {
		return nil, err
	}

	report := &scanReport{Chains: len(descriptors), ResultsDir: logSink.Dir()}
	sinks := results.MultiSink{logSink}
	var reporters results.MultiReporter

	var store *results.SQLiteStore
	if s.Database != "" {
		store, err = results.OpenStore(ctx, s.Database)
		if err != nil {
			return nil, scanerr.WithCause(scanerr.ErrResultWrite, err)
		}
		defer func() { _ = store.Close() }()

		report.RunID, err = store.StartRun(ctx, len(descriptors))
		if err != nil {
			return nil, scanerr.WithCause(scanerr.ErrResultWrite, err)
		}
		sinks = append(sinks, store)
		reporters = append(reporters, store)
		log.Debug("recording run %s in %s", report.RunID, s.Database)
	}

	client := rpc.NewClient(
		rpc.WithRateLimiter(chain.NewRateLimiter(s.RateLimit, s.RateBurst)),
		rpc.WithTimeout(s.Timeout),
		rpc.WithMetrics(m),
	)
	opts := s.ScanOptions
	scanner := scan.NewScanner(descriptors, scan.NewProbe(client, log), sinks, log, &opts)
	orchestrator := scan.NewOrchestrator(scanner, wallet.DeriveAddress, reporters, log)

	summaries, runErr := orchestrator.Run(ctx, secrets)
	report.Targets = summaries
	for _, sum := range summaries {
		m.RecordTarget(sum.Error != "")
		m.RecordFindings(sum.BalancesFound)
	}
	report.Metrics = m.Snapshot()

	if store != nil {
		// The run is closed even after an interrupt.
		if err := store.FinishRun(context.WithoutCancel(ctx), len(summaries)); err != nil {
			log.Error("finishing run %s: %v", report.RunID, err)
		}
	}

	if runErr != nil {
		report.Interrupted = true
		log.Error("scan interrupted after %d of %d seeds", len(summaries), len(secrets))
		return report, scanerr.WithSuggestion(
			scanerr.WithCause(scanerr.ErrGeneral, runErr),
			"findings recorded before the interrupt are kept; rerun to scan the remaining seeds",
		)
	}
	return report, nil
}

// displayScanText renders a scan report for humans. No secret is printed.
func displayScanText(w io.Writer, r *scanReport) error {
	table := output.NewTable("#", "ADDRESS", "PROBED", "FOUND", "TIER 2", "DURATION", "ERROR").AlignRight(0, 2, 3, 5)
	for _, sum := range r.Targets {
		tier2 := "no"
		if sum.Expanded {
			tier2 = "yes"
		}
		table.AddRow(
			strconv.Itoa(sum.Index+1),
			sum.Address,
			strconv.Itoa(sum.ChainsProbed),
			strconv.Itoa(sum.BalancesFound),
			tier2,
			sum.Duration.Round(time.Millisecond).String(),
			sum.Error,
		)
	}
	if err := table.Render(w); err != nil {
		return err
	}

	findings := output.NewTable("#", "CHAIN", "AMOUNT", "SYMBOL").AlignRight(0, 2)
	for _, sum := range r.Targets {
		for _, f := range sum.Findings {
			findings.AddRow(strconv.Itoa(sum.Index+1), f.Chain, f.Amount, f.Symbol)
		}
	}
	if findings.Len() > 0 {
		outln(w)
		if err := findings.Render(w); err != nil {
			return err
		}
	}

	outln(w)
	out(w, "Chains in catalog: %d\n", r.Chains)
	out(w, "RPC calls: %d (%d failed, avg %.0f ms)\n",
		r.Metrics.RPCCallsTotal, r.Metrics.RPCErrorsTotal, r.Metrics.RPCLatencyAvgMs)
	out(w, "Results directory: %s\n", r.ResultsDir)
	if r.RunID != "" {
		out(w, "Run ID: %s\n", r.RunID)
	}
	if r.Interrupted {
		outln(w, "Scan interrupted before all seeds were scanned.")
	}
	return nil
}
