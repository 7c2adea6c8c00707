package scan

import (
	"context"
	"math/big"
)

// BalanceFetcher issues one latest-balance query against one endpoint.
// Satisfied by *rpc.Client.
type BalanceFetcher interface {
	FetchBalance(ctx context.Context, endpoint, address string) (*big.Int, error)
}

// Sink receives every unique positive balance recorded for a target.
// Implementations must be safe for concurrent use: completions of different
// probes may deliver findings from different goroutines.
type Sink interface {
	Record(ctx context.Context, f Finding) error
}

// Reporter receives the summary of each target once its scan ends.
type Reporter interface {
	ReportTarget(ctx context.Context, s Summary) error
}

// Deriver turns a secret into the address to scan.
type Deriver func(secret string) (string, error)

// Logger is the logging surface used by the scanner.
// Satisfied by *config.Logger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type nopSink struct{}

func (nopSink) Record(context.Context, Finding) error { return nil }
