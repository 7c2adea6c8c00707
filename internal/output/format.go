// Package output renders command results as aligned text or JSON.
package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format represents the output format.
type Format string

// Output format constants.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// Formatter writes command results in one resolved format.
type Formatter struct {
	format Format
	w      io.Writer
}

// NewFormatter creates a formatter writing to w. FormatAuto is resolved
// once, against w.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: DetectFormat(w, format), w: w}
}

// Format returns the resolved output format.
func (f *Formatter) Format() Format {
	return f.format
}

// WithWriter returns a formatter with the same resolved format writing to w.
func (f *Formatter) WithWriter(w io.Writer) *Formatter {
	return &Formatter{format: f.format, w: w}
}

// Emit writes v as indented JSON, or calls text to render it for humans.
// A nil text always yields JSON.
func (f *Formatter) Emit(v any, text func(w io.Writer) error) error {
	if f.format != FormatJSON && text != nil {
		return text(f.w)
	}
	return writeJSON(f.w, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DetectFormat resolves FormatAuto: text for a terminal, JSON for pipes and
// files. An explicit format is returned unchanged.
func DetectFormat(w io.Writer, explicit Format) Format {
	switch explicit {
	case FormatText, FormatJSON:
		return explicit
	}
	if isTerminal(w) {
		return FormatText
	}
	return FormatJSON
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

// ParseFormat parses a format name. Anything unrecognized means auto.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f
	default:
		return FormatAuto
	}
}
