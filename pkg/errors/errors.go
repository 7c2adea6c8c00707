// Package errors provides structured error handling for evmscan.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"maps"
	"sort"
)

// Exit codes returned by the evmscan binary.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitAuth     = 3 // Authentication failed (wrong seed file passphrase)
	ExitNotFound = 4 // Resource not found
)

// ScanError is the structured error type for evmscan.
type ScanError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *ScanError) Error() string {
	msg := e.Message

	// Sorted for deterministic output
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ScanError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ScanError.
func (e *ScanError) Is(target error) bool {
	var t *ScanError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &ScanError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &ScanError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &ScanError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrInvalidMnemonic = &ScanError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &ScanError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted file",
		ExitCode: ExitAuth,
	}

	ErrInvalidAddress = &ScanError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrNetworkError = &ScanError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	// Input file errors.
	ErrSecretsNotFound = &ScanError{
		Code:     "SECRETS_NOT_FOUND",
		Message:  "seeds file not found",
		ExitCode: ExitNotFound,
	}

	ErrCatalogNotFound = &ScanError{
		Code:     "CATALOG_NOT_FOUND",
		Message:  "chain catalog file not found",
		ExitCode: ExitNotFound,
	}

	ErrCatalogInvalid = &ScanError{
		Code:     "CATALOG_INVALID",
		Message:  "chain catalog is invalid",
		ExitCode: ExitInput,
	}

	// Config-specific errors.
	ErrConfigNotFound = &ScanError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &ScanError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &ScanError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}

	// Result persistence errors.
	ErrResultWrite = &ScanError{
		Code:     "RESULT_WRITE_FAILED",
		Message:  "failed to persist result",
		ExitCode: ExitGeneral,
	}
)

// codeGeneral classifies errors that carry no ScanError.
const codeGeneral = "GENERAL_ERROR"

// New creates a new ScanError with the given code and message.
func New(code, message string) *ScanError {
	return &ScanError{Code: code, Message: message, ExitCode: ExitGeneral}
}

// amend copies the first ScanError in err's chain, or wraps a plain error as
// a general error, and applies edit to the copy. Sentinels are never mutated.
func amend(err error, edit func(e *ScanError)) error {
	if err == nil {
		return nil
	}

	var out ScanError
	var se *ScanError
	if errors.As(err, &se) {
		out = *se
	} else {
		out = ScanError{Code: codeGeneral, Message: err.Error(), Cause: err, ExitCode: ExitGeneral}
	}
	edit(&out)
	return &out
}

// Wrap prefixes err's message with context, keeping its code and exit code.
func Wrap(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	var se *ScanError
	structured := errors.As(err, &se)

	return amend(err, func(e *ScanError) {
		if !structured {
			// The plain error is already the cause; keep it out of the message.
			e.Message = msg
			return
		}
		e.Message = msg + ": " + e.Message
		e.Cause = err
	})
}

// WithDetails merges details into err's details; new keys win.
func WithDetails(err error, details map[string]string) error {
	return amend(err, func(e *ScanError) {
		merged := make(map[string]string, len(e.Details)+len(details))
		maps.Copy(merged, e.Details)
		maps.Copy(merged, details)
		e.Details = merged
	})
}

// WithSuggestion sets the actionable hint shown under the error.
func WithSuggestion(err error, suggestion string) error {
	return amend(err, func(e *ScanError) {
		e.Suggestion = suggestion
	})
}

// WithCause attaches an underlying cause to a sentinel error while keeping its code.
func WithCause(sentinel *ScanError, cause error) error {
	if sentinel == nil {
		return cause
	}
	out := *sentinel
	out.Cause = cause
	return &out
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *ScanError
	if errors.As(err, &se) {
		return se.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Code
	}
	return codeGeneral
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
