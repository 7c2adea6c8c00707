package scan

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mrz1836/evmscan/internal/chain"
)

// Probe queries one chain for one address.
// Only the descriptor's first endpoint is ever used; additional endpoints are
// not tried as fallback.
type Probe struct {
	fetcher BalanceFetcher
	logger  Logger
}

// NewProbe creates a probe backed by fetcher.
func NewProbe(fetcher BalanceFetcher, logger Logger) *Probe {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Probe{fetcher: fetcher, logger: logger}
}

// Run fetches the balance of address on d and converts it to whole units.
// Every failure, including a descriptor without endpoints, yields an
// observation with an invalid amount. Errors never leave the probe.
func (p *Probe) Run(ctx context.Context, address string, d chain.Descriptor) Observation {
	obs := Observation{Chain: d.Name, Symbol: d.Symbol}

	endpoint, ok := d.PrimaryEndpoint()
	if !ok {
		p.logger.Debug("skipping %s: no RPC endpoint configured", d)
		return obs
	}

	raw, err := p.fetcher.FetchBalance(ctx, endpoint, address)
	if err != nil || raw == nil {
		p.logger.Debug("probe %s via %s failed: %v", d, endpoint, err)
		return obs
	}

	obs.Amount = decimal.NewNullDecimal(chain.ToDecimal(raw, d.Decimals))
	return obs
}
