package secure

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

// FileExtension marks age-encrypted seed files.
const FileExtension = ".age"

// ErrEmptyPassphrase is returned when sealing or opening with an empty passphrase.
var ErrEmptyPassphrase = errors.New("passphrase must not be empty")

// Encrypt seals plaintext with an age scrypt recipient.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

// Decrypt opens ciphertext sealed by Encrypt into secure memory.
// The caller must Destroy the result.
func Decrypt(ciphertext []byte, passphrase string) (*Bytes, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	defer Zero(plaintext)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}

	return FromSlice(plaintext), nil
}
