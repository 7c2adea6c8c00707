package secure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/evmscan/internal/secure"
)

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()

	plaintext := []byte("test test test test test test test test test test test junk\n")
	passphrase := "correct horse battery staple" // gitleaks:allow

	ciphertext, err := secure.Encrypt(plaintext, passphrase)
	require.NoError(t, err)
	assert.NotContains(t, string(ciphertext), "junk")

	opened, err := secure.Decrypt(ciphertext, passphrase)
	require.NoError(t, err)
	defer opened.Destroy()
	assert.Equal(t, plaintext, opened.Bytes())
}

func TestDecrypt_WrongPassphrase(t *testing.T) {
	t.Parallel()

	ciphertext, err := secure.Encrypt([]byte("secret"), "right")
	require.NoError(t, err)

	_, err = secure.Decrypt(ciphertext, "wrong")
	require.Error(t, err)
}

func TestEmptyPassphrase(t *testing.T) {
	t.Parallel()

	_, err := secure.Encrypt([]byte("x"), "")
	require.ErrorIs(t, err, secure.ErrEmptyPassphrase)

	_, err = secure.Decrypt([]byte("x"), "")
	require.ErrorIs(t, err, secure.ErrEmptyPassphrase)
}

func TestDecrypt_Garbage(t *testing.T) {
	t.Parallel()

	_, err := secure.Decrypt([]byte("not an age file"), "pass")
	require.Error(t, err)
}
