package scan

import (
	"sort"
	"sync"

	"github.com/mrz1836/evmscan/internal/chain"
)

// dispatch is the outcome of asking the state whether a chain should be probed.
type dispatch int

const (
	dispatchProbe dispatch = iota // probe the chain now
	dispatchSkip                  // currency already yielded a balance
	dispatchWait                  // a probe for the same currency is in flight
)

// State is the per-target scan state. It is owned by one Scanner.Scan call and
// every mutation goes through its mutex; probes never hold the lock across
// network I/O.
type State struct {
	mu       sync.Mutex
	checked  map[string]struct{}      // currencies that yielded a recorded balance
	unique   map[string]struct{}      // amounts already recorded
	inflight map[string]chan struct{} // currencies with a probe in flight
	probed   int
	found    int
}

// NewState returns an empty state for a new target.
func NewState() *State {
	return &State{
		checked:  make(map[string]struct{}),
		unique:   make(map[string]struct{}),
		inflight: make(map[string]chan struct{}),
	}
}

// reserve decides whether a chain with the given currency should be probed.
// On dispatchProbe the currency is marked in flight and counted as probed.
// On dispatchWait the returned channel closes when the in-flight probe completes.
func (s *State) reserve(symbol string) (dispatch, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checked[symbol]; ok {
		return dispatchSkip, nil
	}
	if done, ok := s.inflight[symbol]; ok {
		return dispatchWait, done
	}

	s.inflight[symbol] = make(chan struct{})
	s.probed++
	return dispatchProbe, nil
}

// abandon undoes a reservation whose probe never started.
func (s *State) abandon(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.probed--
	s.release(symbol)
}

// complete applies a probe result. It returns true when the observation is a
// new unique positive balance, in which case the currency is marked checked.
func (s *State) complete(obs Observation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.release(obs.Symbol)

	if !obs.Positive() {
		return false
	}

	key := chain.AmountKey(obs.Amount.Decimal)
	if _, seen := s.unique[key]; seen {
		return false
	}

	s.unique[key] = struct{}{}
	s.found++
	s.checked[obs.Symbol] = struct{}{}
	return true
}

// release clears the in-flight marker for symbol. Caller holds s.mu.
func (s *State) release(symbol string) {
	if done, ok := s.inflight[symbol]; ok {
		close(done)
		delete(s.inflight, symbol)
	}
}

// Probed returns the number of chains probed so far.
func (s *State) Probed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probed
}

// Found returns the number of unique balances recorded so far.
func (s *State) Found() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.found
}

// Checked reports whether symbol already yielded a recorded balance.
func (s *State) Checked(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.checked[symbol]
	return ok
}

// CheckedCurrencies returns the checked currency symbols, sorted.
func (s *State) CheckedCurrencies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.checked)
}

// UniqueAmounts returns the recorded amounts in canonical form, sorted.
func (s *State) UniqueAmounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.unique)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
