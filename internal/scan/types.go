// Package scan discovers which chains of a catalog hold a native balance for
// an address. It probes chains in two tiers under a per-target concurrency
// gate, skips chains whose currency already produced a balance, and hands
// every unique positive balance to a Sink.
package scan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrz1836/evmscan/internal/chain"
)

// Target is one secret and the address derived from it.
type Target struct {
	Secret  string
	Address string
}

// Observation is the outcome of probing one chain for one address.
// Amount is invalid when the probe failed for any reason.
type Observation struct {
	Chain  string
	Symbol string
	Amount decimal.NullDecimal
}

// Positive reports whether the observation carries a balance greater than zero.
func (o Observation) Positive() bool {
	return o.Amount.Valid && o.Amount.Decimal.IsPositive()
}

// Finding is a recorded unique positive balance.
type Finding struct {
	Address string
	Secret  string
	Amount  decimal.Decimal
	Chain   string
	Symbol  string
}

// FindingView is the secret-free projection of a Finding used in summaries.
type FindingView struct {
	Chain  string `json:"chain"`
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

// View returns the secret-free projection of f.
func (f Finding) View() FindingView {
	return FindingView{
		Chain:  f.Chain,
		Symbol: f.Symbol,
		Amount: chain.FormatAmount(f.Amount),
	}
}

// Summary reports the outcome of one target's scan.
type Summary struct {
	Index         int           `json:"index"`
	Address       string        `json:"address,omitempty"`
	ChainsProbed  int           `json:"chains_probed"`
	BalancesFound int           `json:"balances_found"`
	Expanded      bool          `json:"expanded"`
	Findings      []FindingView `json:"findings,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
	Error         string        `json:"error,omitempty"`
}
