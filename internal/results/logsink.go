package results

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mrz1836/evmscan/internal/chain"
	"github.com/mrz1836/evmscan/internal/fileutil"
	"github.com/mrz1836/evmscan/internal/scan"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// AllResultsFile receives every record regardless of bucket.
const AllResultsFile = "results.txt"

// LogSink appends a human-readable record for each finding to
// results.txt and to the bucket file for its amount.
// Files are opened per write so external rotation is safe.
type LogSink struct {
	dir string
	mu  sync.Mutex
}

// NewLogSink creates a sink writing into dir, creating it if needed.
func NewLogSink(dir string) (*LogSink, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, scanerr.WithCause(scanerr.ErrResultWrite, fmt.Errorf("creating results dir %s: %w", dir, err))
	}
	return &LogSink{dir: dir}, nil
}

// Dir returns the directory the sink writes into.
func (s *LogSink) Dir() string {
	return s.dir
}

// Record appends f to the all-results log and its bucket log.
func (s *LogSink) Record(_ context.Context, f scan.Finding) error {
	record := FormatRecord(f)
	bucket := Classify(f.Amount)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{AllResultsFile, bucket.File()} {
		if err := fileutil.AppendFile(filepath.Join(s.dir, name), []byte(record), 0o600); err != nil {
			return scanerr.WithCause(scanerr.ErrResultWrite, err)
		}
	}
	return nil
}

// FormatRecord renders f as a results log record, terminated by a blank line.
func FormatRecord(f scan.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mnemonic: %s\n", f.Secret)
	fmt.Fprintf(&b, "Address: %s\n", f.Address)
	fmt.Fprintf(&b, "Chain: %s (%s)\n", f.Chain, f.Symbol)
	fmt.Fprintf(&b, "Balance: %s %s\n\n", chain.FormatAmount(f.Amount), f.Symbol)
	return b.String()
}
