package scan_test

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrz1836/evmscan/internal/chain"
	"github.com/mrz1836/evmscan/internal/scan"
)

const testAddress = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"

var errUnreachable = errors.New("connection refused")

// fakeFetcher serves canned balances per endpoint and tracks concurrency.
type fakeFetcher struct {
	mu        sync.Mutex
	balances  map[string]*big.Int
	failures  map[string]error
	calls     map[string]int
	delay     time.Duration
	inFlight  atomic.Int32
	maxFlight atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		balances: make(map[string]*big.Int),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *fakeFetcher) set(endpoint string, wei int64) *fakeFetcher {
	f.balances[endpoint] = big.NewInt(wei)
	return f
}

func (f *fakeFetcher) fail(endpoint string) *fakeFetcher {
	f.failures[endpoint] = errUnreachable
	return f
}

func (f *fakeFetcher) FetchBalance(ctx context.Context, endpoint, _ string) (*big.Int, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls[endpoint]++
	bal, ok := f.balances[endpoint]
	err := f.failures[endpoint]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(bal), nil
}

func (f *fakeFetcher) callsTo(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, c := range f.calls {
		total += c
	}
	return total
}

// recordingSink collects findings.
type recordingSink struct {
	mu       sync.Mutex
	findings []scan.Finding
	err      error
}

func (s *recordingSink) Record(_ context.Context, f scan.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings = append(s.findings, f)
	return s.err
}

func (s *recordingSink) all() []scan.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]scan.Finding, len(s.findings))
	copy(out, s.findings)
	return out
}

// amounts returns the recorded amounts in canonical form, sorted.
func (s *recordingSink) amounts() []string {
	out := make([]string, 0)
	for _, f := range s.all() {
		out = append(out, chain.AmountKey(f.Amount))
	}
	sort.Strings(out)
	return out
}

// recordingReporter collects summaries.
type recordingReporter struct {
	mu        sync.Mutex
	summaries []scan.Summary
}

func (r *recordingReporter) ReportTarget(_ context.Context, s scan.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, s)
	return nil
}

// desc builds a descriptor whose only endpoint is named after the chain.
func desc(name, symbol string) chain.Descriptor {
	return chain.Descriptor{
		Name:      name,
		Symbol:    symbol,
		Decimals:  18,
		Endpoints: []string{"rpc://" + name},
	}
}

func endpoint(name string) string {
	return "rpc://" + name
}

// ether returns n whole units in wei.
func ether(n int64) int64 {
	return n * 1_000_000_000_000_000_000
}

func newScanner(catalog []chain.Descriptor, fetcher scan.BalanceFetcher, sink scan.Sink) *scan.Scanner {
	return scan.NewScanner(catalog, scan.NewProbe(fetcher, nil), sink, nil, nil)
}
