package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/evmscan/internal/config"
	"github.com/mrz1836/evmscan/internal/output"
	"github.com/mrz1836/evmscan/internal/wallet"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// stubPasswords makes promptPasswordFn return answers in order.
func stubPasswords(t *testing.T, answers ...string) *int {
	t.Helper()
	prev := promptPasswordFn
	t.Cleanup(func() { promptPasswordFn = prev })

	calls := 0
	promptPasswordFn = func(string) ([]byte, error) {
		if calls >= len(answers) {
			return nil, errors.New("unexpected prompt") //nolint:err113 // test stub
		}
		calls++
		return []byte(answers[calls-1]), nil
	}
	return &calls
}

func TestCheckSeeds(t *testing.T) {
	t.Parallel()

	typo := "abandn abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	statuses := checkSeeds([]string{testMnemonic, typo, "abandon abandon"})
	require.Len(t, statuses, 3)

	assert.Equal(t, seedStatus{Line: 1, Valid: true, Address: testAddress}, statuses[0])

	assert.Equal(t, 2, statuses[1].Line)
	assert.False(t, statuses[1].Valid)
	assert.Empty(t, statuses[1].Address)
	assert.NotEmpty(t, statuses[1].Problem)
	assert.Contains(t, statuses[1].Suggestion, "abandon")

	assert.False(t, statuses[2].Valid)
	assert.NotEmpty(t, statuses[2].Problem)
}

func TestRunSeedsCheck(t *testing.T) {
	home := withTestGlobals(t, output.FormatText)

	path := filepath.Join(home, "seeds.txt")
	require.NoError(t, os.WriteFile(path, []byte(testMnemonic+"\n"), 0o600))

	cmd, buf := newTestCommand()
	require.NoError(t, runSeedsCheck(cmd, nil), "configured seeds file resolves against home")
	assert.Contains(t, buf.String(), testAddress)
	assert.Contains(t, buf.String(), "1 of 1 seeds valid")
	assert.NotContains(t, buf.String(), "abandon")

	bad := filepath.Join(home, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte(testMnemonic+"\nnot a mnemonic\n"), 0o600))

	buf.Reset()
	err := runSeedsCheck(cmd, []string{bad})
	require.ErrorIs(t, err, scanerr.ErrInvalidMnemonic)

	var se *scanerr.ScanError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, strconv.Itoa(2), se.Details["first_invalid_line"])
	assert.Contains(t, buf.String(), "1 of 2 seeds valid")
}

func TestRunSeedsSeal(t *testing.T) {
	withTestGlobals(t, output.FormatText)
	prev := promptNewPasswordFn
	t.Cleanup(func() { promptNewPasswordFn = prev })
	promptNewPasswordFn = func() ([]byte, error) { return []byte("correct horse"), nil }

	dir := t.TempDir()
	src := filepath.Join(dir, "seeds.txt")
	require.NoError(t, os.WriteFile(src, []byte(testMnemonic+"\n\n"+testMnemonic+"\n"), 0o600))

	cmd, buf := newTestCommand()
	require.NoError(t, runSeedsSeal(cmd, []string{src}))
	assert.Contains(t, buf.String(), "Sealed 2 seeds")

	sealed := src + ".age"
	raw, err := os.ReadFile(sealed)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "abandon")

	secrets, err := wallet.LoadSecrets(sealed, func() (string, error) { return "correct horse", nil })
	require.NoError(t, err)
	assert.Equal(t, []string{testMnemonic, testMnemonic}, secrets)

	t.Run("already sealed source", func(t *testing.T) {
		err := runSeedsSeal(cmd, []string{sealed})
		require.ErrorIs(t, err, scanerr.ErrInvalidInput)
	})

	t.Run("destination without age suffix", func(t *testing.T) {
		err := runSeedsSeal(cmd, []string{src, filepath.Join(dir, "out.txt")})
		require.ErrorIs(t, err, scanerr.ErrInvalidInput)
	})

	t.Run("destination exists", func(t *testing.T) {
		err := runSeedsSeal(cmd, []string{src, sealed})
		require.Error(t, err)
	})
}

func TestPromptNewPassword(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		calls := stubPasswords(t, "long enough", "long enough")
		pw, err := promptNewPassword()
		require.NoError(t, err)
		assert.Equal(t, "long enough", string(pw))
		assert.Equal(t, 2, *calls)
	})

	t.Run("too short", func(t *testing.T) {
		calls := stubPasswords(t, "short")
		_, err := promptNewPassword()
		require.ErrorIs(t, err, scanerr.ErrInvalidInput)
		assert.Equal(t, 1, *calls, "no confirmation prompt after a short passphrase")
	})

	t.Run("mismatch", func(t *testing.T) {
		stubPasswords(t, "long enough", "long enougH")
		_, err := promptNewPassword()
		require.ErrorIs(t, err, scanerr.ErrInvalidInput)
	})
}

func TestSeedsPassphrase(t *testing.T) {
	t.Run("environment wins", func(t *testing.T) {
		t.Setenv(config.EnvSeedsPassphrase, "from env")
		calls := stubPasswords(t)

		pw, err := seedsPassphrase()
		require.NoError(t, err)
		assert.Equal(t, "from env", pw)
		assert.Equal(t, 0, *calls)
	})

	t.Run("prompt", func(t *testing.T) {
		t.Setenv(config.EnvSeedsPassphrase, "")
		stubPasswords(t, "typed")

		pw, err := seedsPassphrase()
		require.NoError(t, err)
		assert.Equal(t, "typed", pw)
	})
}
