// Package results persists discovered balances: an append-only text log
// split into severity buckets, and an optional SQLite store.
package results

import (
	"github.com/shopspring/decimal"
)

// Bucket is a severity class for a discovered balance.
type Bucket string

// Buckets by amount.
const (
	BucketLow    Bucket = "low"
	BucketMedium Bucket = "medium"
	BucketHigh   Bucket = "high"
)

//nolint:gochecknoglobals // fixed thresholds
var (
	mediumThreshold = decimal.New(1, -1) // 0.1
	highThreshold   = decimal.New(1, 0)  // 1
)

// Classify returns the bucket for amount: below 0.1 is low, below 1 is
// medium, anything else is high.
func Classify(amount decimal.Decimal) Bucket {
	switch {
	case amount.LessThan(mediumThreshold):
		return BucketLow
	case amount.LessThan(highThreshold):
		return BucketMedium
	default:
		return BucketHigh
	}
}

// File returns the log file name for the bucket.
func (b Bucket) File() string {
	return string(b) + ".txt"
}
