// Package chain provides the chain descriptor model and amount utilities
// shared by the catalog loader, the RPC client and the scanner.
package chain

import (
	"fmt"
	"strings"
)

// DefaultSymbol is the currency symbol assumed when a catalog entry omits one.
const DefaultSymbol = "ETH"

// DefaultName is the display name assumed when a catalog entry omits one.
const DefaultName = "Unknown"

// DefaultDecimals is the native-currency precision of nearly every EVM chain.
const DefaultDecimals = 18

// Descriptor describes one EVM-compatible chain from the catalog.
// Descriptors are built once per run and never mutated afterwards.
type Descriptor struct {
	// Name is the human-readable chain name.
	Name string `json:"name"`

	// Symbol is the native-currency ticker (ETH, BNB, MATIC, ...).
	Symbol string `json:"symbol"`

	// Decimals is the native-currency precision.
	Decimals int `json:"decimals"`

	// Endpoints are RPC URLs in catalog order. Only the first one is queried.
	Endpoints []string `json:"endpoints"`

	// Testnet marks test networks. The catalog loader drops them.
	Testnet bool `json:"testnet,omitempty"`
}

// PrimaryEndpoint returns the endpoint used for balance queries.
// Additional endpoints are kept for reference and are never used as fallback.
func (d Descriptor) PrimaryEndpoint() (string, bool) {
	if len(d.Endpoints) == 0 {
		return "", false
	}
	return d.Endpoints[0], true
}

// String returns "Name (SYMBOL)".
func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Symbol)
}

// SplitEndpoints splits a comma-delimited endpoint list, trimming whitespace
// and dropping empty entries.
func SplitEndpoints(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
