package scan

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/mrz1836/evmscan/internal/chain"
	"github.com/mrz1836/evmscan/internal/chain/catalog"
)

// Default scan policy.
const (
	// DefaultConcurrency is the number of probes allowed in flight per target.
	DefaultConcurrency = 4

	// DefaultTierOneSize is the number of catalog entries in the first pass.
	DefaultTierOneSize = 50

	// DefaultTierTwoLimit is the catalog position where the second pass stops.
	DefaultTierTwoLimit = 200

	// DefaultExpandThreshold is the number of first-pass balances that
	// unlocks the second pass.
	DefaultExpandThreshold = 5
)

// Options configures a Scanner.
type Options struct {
	Concurrency     int
	TierOneSize     int
	TierTwoLimit    int
	ExpandThreshold int
}

// DefaultOptions returns the default scan policy.
func DefaultOptions() *Options {
	return &Options{
		Concurrency:     DefaultConcurrency,
		TierOneSize:     DefaultTierOneSize,
		TierTwoLimit:    DefaultTierTwoLimit,
		ExpandThreshold: DefaultExpandThreshold,
	}
}

// normalize fills non-positive fields with defaults.
func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.TierOneSize <= 0 {
		o.TierOneSize = DefaultTierOneSize
	}
	if o.TierTwoLimit <= 0 {
		o.TierTwoLimit = DefaultTierTwoLimit
	}
	if o.TierTwoLimit < o.TierOneSize {
		o.TierTwoLimit = o.TierOneSize
	}
	if o.ExpandThreshold <= 0 {
		o.ExpandThreshold = DefaultExpandThreshold
	}
}

// Scanner walks the chain catalog for one target at a time.
// The catalog is shared read-only; all per-target state lives in the Scan call.
type Scanner struct {
	catalog []chain.Descriptor
	probe   *Probe
	sink    Sink
	logger  Logger
	opts    Options
}

// NewScanner creates a scanner over the given catalog descriptors.
func NewScanner(descriptors []chain.Descriptor, probe *Probe, sink Sink, logger Logger, opts *Options) *Scanner {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	o.normalize()

	if sink == nil {
		sink = nopSink{}
	}
	if logger == nil {
		logger = nopLogger{}
	}

	return &Scanner{
		catalog: descriptors,
		probe:   probe,
		sink:    sink,
		logger:  logger,
		opts:    o,
	}
}

// Tiers returns the two catalog ranges scanned for every target:
// [0, TierOneSize) and [TierOneSize, TierTwoLimit), clipped to the catalog.
func (s *Scanner) Tiers() (first, second []chain.Descriptor) {
	f, sec := catalog.Catalog(s.catalog).Tiers(s.opts.TierOneSize, s.opts.TierTwoLimit)
	return f, sec
}

// Scan probes the catalog for target. The first tier always runs in full; the
// second runs only when the first recorded at least ExpandThreshold balances.
// The returned error is non-nil only when ctx is canceled; probe failures are
// absorbed as "no balance".
func (s *Scanner) Scan(ctx context.Context, target Target) (Summary, error) {
	start := time.Now()
	state := NewState()
	gate := semaphore.NewWeighted(int64(s.opts.Concurrency))

	var (
		mu       sync.Mutex
		findings []FindingView
	)
	collect := func(f Finding) {
		mu.Lock()
		findings = append(findings, f.View())
		mu.Unlock()
	}

	first, second := s.Tiers()

	err := s.runTier(ctx, target, first, state, gate, collect)
	expanded := false
	if err == nil && state.Found() >= s.opts.ExpandThreshold {
		expanded = true
		s.logger.Info("found %d unique balances for %s in the first %d chains; continuing up to %d",
			state.Found(), target.Address, len(first), len(first)+len(second))
		err = s.runTier(ctx, target, second, state, gate, collect)
	}

	summary := Summary{
		Address:       target.Address,
		ChainsProbed:  state.Probed(),
		BalancesFound: state.Found(),
		Expanded:      expanded,
		Findings:      findings,
		Duration:      time.Since(start),
	}
	return summary, err
}

// runTier dispatches probes for tier in catalog order and waits for all of
// them. At most opts.Concurrency probes are in flight at once.
func (s *Scanner) runTier(
	ctx context.Context,
	target Target,
	tier []chain.Descriptor,
	state *State,
	gate *semaphore.Weighted,
	collect func(Finding),
) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for _, d := range tier {
		proceed, err := s.admit(ctx, state, d.Symbol)
		if err != nil {
			return err
		}
		if !proceed {
			continue
		}

		if err := gate.Acquire(ctx, 1); err != nil {
			state.abandon(d.Symbol)
			return err
		}

		wg.Add(1)
		go func(d chain.Descriptor) {
			defer wg.Done()
			defer gate.Release(1)

			s.logger.Debug("checking %s on %s", target.Address, d)
			obs := s.probe.Run(ctx, target.Address, d)
			if !state.complete(obs) {
				return
			}

			f := Finding{
				Address: target.Address,
				Secret:  target.Secret,
				Amount:  obs.Amount.Decimal,
				Chain:   obs.Chain,
				Symbol:  obs.Symbol,
			}
			collect(f)
			s.logger.Debug("found balance %s %s on %s", f.View().Amount, f.Symbol, f.Chain)
			if err := s.sink.Record(ctx, f); err != nil {
				s.logger.Error("recording balance on %s for %s: %v", f.Chain, f.Address, err)
			}
		}(d)
	}

	return nil
}

// admit resolves the skip decision for one descriptor. When a probe for the
// same currency is still in flight it waits for that probe, so a currency
// that just produced a balance is skipped exactly as in a sequential walk.
func (s *Scanner) admit(ctx context.Context, state *State, symbol string) (bool, error) {
	for {
		decision, done := state.reserve(symbol)
		switch decision {
		case dispatchProbe:
			return true, nil
		case dispatchSkip:
			return false, nil
		case dispatchWait:
			select {
			case <-done:
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}
	}
}
