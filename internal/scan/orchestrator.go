package scan

import (
	"context"
	"time"
)

// Orchestrator scans targets one after another. Each target gets a fresh
// state and a fresh concurrency gate; targets never overlap.
type Orchestrator struct {
	scanner  *Scanner
	derive   Deriver
	reporter Reporter
	logger   Logger
}

// NewOrchestrator creates an orchestrator. reporter may be nil.
func NewOrchestrator(scanner *Scanner, derive Deriver, reporter Reporter, logger Logger) *Orchestrator {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Orchestrator{
		scanner:  scanner,
		derive:   derive,
		reporter: reporter,
		logger:   logger,
	}
}

// Run scans every secret in order and returns one summary per secret.
// A secret that fails to derive is reported with its Error set and skipped.
// Run stops early only when ctx is canceled, returning the summaries so far.
func (o *Orchestrator) Run(ctx context.Context, secrets []string) ([]Summary, error) {
	summaries := make([]Summary, 0, len(secrets))

	for i, secret := range secrets {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		summary, err := o.runOne(ctx, i, secret)
		summaries = append(summaries, summary)
		if err != nil {
			return summaries, err
		}
	}

	return summaries, nil
}

// runOne derives, scans and reports a single target.
func (o *Orchestrator) runOne(ctx context.Context, index int, secret string) (Summary, error) {
	start := time.Now()

	address, err := o.derive(secret)
	if err != nil {
		// The secret itself is never logged.
		o.logger.Error("target %d: deriving address: %v", index+1, err)
		summary := Summary{Index: index, Error: err.Error(), Duration: time.Since(start)}
		o.report(ctx, summary)
		return summary, nil
	}

	o.logger.Info("target %d: scanning %s", index+1, address)

	summary, err := o.scanner.Scan(ctx, Target{Secret: secret, Address: address})
	summary.Index = index
	if err != nil {
		summary.Error = err.Error()
		return summary, err
	}

	o.logger.Info("target %d: checked %d chains for %s, found %d unique balances",
		index+1, summary.ChainsProbed, address, summary.BalancesFound)
	if summary.BalancesFound == 0 {
		o.logger.Info("target %d: no positive balance found for %s", index+1, address)
	}

	o.report(ctx, summary)
	return summary, nil
}

func (o *Orchestrator) report(ctx context.Context, s Summary) {
	if o.reporter == nil {
		return
	}
	if err := o.reporter.ReportTarget(ctx, s); err != nil {
		o.logger.Error("target %d: reporting summary: %v", s.Index+1, err)
	}
}
