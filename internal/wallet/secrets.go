package wallet

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/mrz1836/evmscan/internal/secure"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// DefaultSecretsFile is the seed list read when none is configured.
const DefaultSecretsFile = "seeds.txt"

// PassphraseFunc supplies the passphrase for an age-sealed seed file.
// It is called at most once per LoadSecrets call, and only for sealed files.
type PassphraseFunc func() (string, error)

// LoadSecrets reads one mnemonic per line from path, trimming whitespace and
// skipping blank lines. Order is preserved. Files ending in ".age" are
// decrypted first with the passphrase from passphrase.
func LoadSecrets(path string, passphrase PassphraseFunc) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scanerr.WithDetails(scanerr.ErrSecretsNotFound, map[string]string{"path": path})
		}
		return nil, scanerr.Wrap(err, "reading seed file %s", path)
	}
	defer secure.Zero(data)

	if !IsSealed(path) {
		return ParseSecrets(data), nil
	}

	if passphrase == nil {
		return nil, scanerr.WithSuggestion(scanerr.ErrDecryptionFailed,
			"set EVMSCAN_SEEDS_PASSPHRASE or run interactively")
	}
	pass, err := passphrase()
	if err != nil {
		return nil, scanerr.WithCause(scanerr.ErrDecryptionFailed, err)
	}

	plain, err := secure.Decrypt(data, pass)
	if err != nil {
		return nil, scanerr.WithCause(scanerr.ErrDecryptionFailed, err)
	}
	defer plain.Destroy()

	return ParseSecrets(plain.Bytes()), nil
}

// ParseSecrets splits data into trimmed, non-empty lines.
func ParseSecrets(data []byte) []string {
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// IsSealed reports whether path names an age-encrypted seed file.
func IsSealed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), secure.FileExtension)
}

// SealSecrets encrypts the seed list at src into dst with passphrase.
// dst is created with 0600 permissions and must not already exist.
func SealSecrets(src, dst, passphrase string) (int, error) {
	secrets, err := LoadSecrets(src, nil)
	if err != nil {
		return 0, err
	}

	plain := []byte(strings.Join(secrets, "\n") + "\n")
	defer secure.Zero(plain)

	sealed, err := secure.Encrypt(plain, passphrase)
	if err != nil {
		return 0, scanerr.Wrap(err, "encrypting seed file")
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // path comes from operator
	if err != nil {
		return 0, scanerr.Wrap(err, "creating %s", dst)
	}
	if _, err := f.Write(sealed); err != nil {
		_ = f.Close()
		return 0, scanerr.Wrap(err, "writing %s", dst)
	}
	if err := f.Close(); err != nil {
		return 0, scanerr.Wrap(err, "closing %s", dst)
	}

	return len(secrets), nil
}
