// Package catalog loads the chain catalog: the ordered list of EVM networks
// probed for every address.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mrz1836/evmscan/internal/chain"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// DefaultFile is the catalog file name used when none is configured.
const DefaultFile = "chain.json"

// Catalog is an ordered, read-only list of chain descriptors.
type Catalog []chain.Descriptor

// entry is one element of the catalog JSON array.
type entry struct {
	Chain    string          `json:"Chain"`
	Symbol   string          `json:"Native Currency Symbol"`
	Decimals json.RawMessage `json:"Native Currency Decimals"`
	RPC      json.RawMessage `json:"RPC"`
	Testnet  bool            `json:"isTestnet"`
}

// Load reads and parses the catalog at path.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scanerr.WithDetails(scanerr.ErrCatalogNotFound, map[string]string{"path": path})
		}
		return nil, scanerr.Wrap(err, "reading chain catalog %s", path)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, scanerr.WithDetails(err, map[string]string{"path": path})
	}
	return c, nil
}

// Parse decodes a catalog JSON array. Testnet entries are dropped and the
// remaining entries keep their file order.
func Parse(data []byte) (Catalog, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, scanerr.WithCause(scanerr.ErrCatalogInvalid, err)
	}

	out := make(Catalog, 0, len(entries))
	for i, e := range entries {
		if e.Testnet {
			continue
		}

		d, err := e.descriptor()
		if err != nil {
			return nil, scanerr.WithCause(scanerr.ErrCatalogInvalid, fmt.Errorf("entry %d (%s): %w", i, e.Chain, err))
		}
		out = append(out, d)
	}

	return out, nil
}

func (e entry) descriptor() (chain.Descriptor, error) {
	d := chain.Descriptor{
		Name:     strings.TrimSpace(e.Chain),
		Symbol:   strings.TrimSpace(e.Symbol),
		Decimals: chain.DefaultDecimals,
	}
	if d.Name == "" {
		d.Name = chain.DefaultName
	}
	if d.Symbol == "" {
		d.Symbol = chain.DefaultSymbol
	}

	if dec, ok, err := parseDecimals(e.Decimals); err != nil {
		return d, err
	} else if ok {
		d.Decimals = dec
	}

	endpoints, err := parseEndpoints(e.RPC)
	if err != nil {
		return d, err
	}
	d.Endpoints = endpoints

	return d, nil
}

// parseDecimals accepts a JSON number or a numeric string.
func parseDecimals(raw json.RawMessage) (int, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false, nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return checkDecimals(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false, fmt.Errorf("decimals %s: %w", raw, err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("decimals %q: %w", s, err)
	}
	return checkDecimals(n)
}

func checkDecimals(n int) (int, bool, error) {
	if n < 0 || n > 77 {
		return 0, false, fmt.Errorf("decimals %d out of range", n) //nolint:err113 // one-off validation message
	}
	return n, true, nil
}

// parseEndpoints accepts a ", "-delimited string or an array of strings.
func parseEndpoints(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return chain.SplitEndpoints(s), nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("RPC %s: %w", raw, err)
	}

	var out []string
	for _, u := range list {
		out = append(out, chain.SplitEndpoints(u)...)
	}
	return out, nil
}

// Tiers returns c[0:n1] and c[n1:limit], clipped to the catalog length.
func (c Catalog) Tiers(n1, limit int) (first, second Catalog) {
	n := len(c)
	if n1 < 0 {
		n1 = 0
	}
	if n1 > n {
		n1 = n
	}
	if limit > n {
		limit = n
	}
	if limit < n1 {
		limit = n1
	}
	return c[:n1], c[n1:limit]
}

// Symbols returns the distinct currency symbols in catalog order.
func (c Catalog) Symbols() []string {
	seen := make(map[string]struct{}, len(c))
	out := make([]string, 0, len(c))
	for _, d := range c {
		if _, ok := seen[d.Symbol]; ok {
			continue
		}
		seen[d.Symbol] = struct{}{}
		out = append(out, d.Symbol)
	}
	return out
}
