package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/mrz1836/evmscan/internal/config"
	"github.com/mrz1836/evmscan/internal/secure"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// minPassphraseLength is the shortest passphrase accepted when sealing a seed file.
const minPassphraseLength = 8

// Prompt hooks, replaced in tests.
//
//nolint:gochecknoglobals // swapped by tests
var (
	promptPasswordFn    = promptPassword
	promptNewPasswordFn = promptNewPassword
)

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}

// promptPassword prompts for a password with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // G115: file descriptors fit in int
	if !term.IsTerminal(fd) {
		return nil, scanerr.WithSuggestion(
			scanerr.ErrInvalidInput,
			fmt.Sprintf("stdin is not a terminal; set %s instead", config.EnvSeedsPassphrase),
		)
	}

	out(os.Stderr, "%s", prompt)

	password, err := term.ReadPassword(fd)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// promptNewPassword prompts for a new passphrase with confirmation.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassword() ([]byte, error) {
	password, err := promptPasswordFn("Enter seed file passphrase: ")
	if err != nil {
		return nil, err
	}

	if len(password) < minPassphraseLength {
		secure.Zero(password)
		return nil, scanerr.WithSuggestion(
			scanerr.ErrInvalidInput,
			fmt.Sprintf("passphrase must be at least %d characters", minPassphraseLength),
		)
	}

	confirm, err := promptPasswordFn("Confirm passphrase: ")
	if err != nil {
		secure.Zero(password)
		return nil, err
	}
	defer secure.Zero(confirm)

	if string(password) != string(confirm) {
		secure.Zero(password)
		return nil, scanerr.WithSuggestion(
			scanerr.ErrInvalidInput,
			"passphrases do not match",
		)
	}

	return password, nil
}

// seedsPassphrase returns the passphrase for a sealed seed file, from the
// environment when set, otherwise from an interactive prompt.
func seedsPassphrase() (string, error) {
	if v, ok := config.SeedsPassphrase(); ok {
		return v, nil
	}

	pw, err := promptPasswordFn("Enter seed file passphrase: ")
	if err != nil {
		return "", err
	}
	defer secure.Zero(pw)
	return string(pw), nil
}
