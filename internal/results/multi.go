package results

import (
	"context"
	"errors"

	"github.com/mrz1836/evmscan/internal/scan"
)

// MultiSink fans each finding out to several sinks. Every sink is tried;
// the errors are joined.
type MultiSink []scan.Sink

// Record implements scan.Sink.
func (m MultiSink) Record(ctx context.Context, f scan.Finding) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiReporter fans each target summary out to several reporters.
type MultiReporter []scan.Reporter

// ReportTarget implements scan.Reporter.
func (m MultiReporter) ReportTarget(ctx context.Context, s scan.Summary) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.ReportTarget(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
