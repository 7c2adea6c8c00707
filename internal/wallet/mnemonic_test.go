package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

const (
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	junkMnemonic    = "test test test test test test test test test test test junk"
)

func TestValidateMnemonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid 12 words", abandonMnemonic, false},
		{"valid 24 words", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art", false},
		{"valid with noise", "  ABANDON, abandon abandon abandon abandon abandon\nabandon abandon abandon abandon abandon about ", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"wrong count", "abandon abandon abandon", true},
		{"bad checksum", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", true},
		{"unknown word", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abuot", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateMnemonic(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, scanerr.ErrInvalidMnemonic)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateMnemonic_ErrorHidesWords(t *testing.T) {
	t.Parallel()

	input := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abuot"
	err := ValidateMnemonic(input)
	require.Error(t, err)

	assert.NotContains(t, err.Error(), "abuot")
	assert.NotContains(t, err.Error(), "abandon")

	var se *scanerr.ScanError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Suggestion, "did you mean 'about'?")
	assert.Equal(t, scanerr.ExitInput, scanerr.ExitCode(err))
}

func TestNormalizeMnemonicInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"  Abandon   ABOUT ", "abandon about"},
		{"1. abandon\n2) ability\n3: able", "abandon ability able"},
		{"- abandon\n* ability\n• able", "abandon ability able"},
		{"abandon,ability, able", "abandon ability able"},
		{"abandon\tability\r\nable", "abandon ability able"},
	}

	for _, tt := range tests {
		tt := tt
		assert.Equal(t, tt.want, NormalizeMnemonicInput(tt.input), "input %q", tt.input)
	}
}

func TestMnemonicToSeed_Vector(t *testing.T) {
	t.Parallel()

	seed, err := MnemonicToSeed(abandonMnemonic, "TREZOR")
	require.NoError(t, err)
	assert.Equal(t,
		"c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		hex.EncodeToString(seed))

	_, err = MnemonicToSeed("not a mnemonic", "")
	require.ErrorIs(t, err, scanerr.ErrInvalidMnemonic)
}

func TestSuggestWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abandon", SuggestWord("abandon"))
	assert.Equal(t, "abandon", SuggestWord("ABANDON"))
	assert.Equal(t, "about", SuggestWord("abuot"))
	assert.Empty(t, SuggestWord("verylongwordthatdoesnotexist"))
}

func TestDetectTypos(t *testing.T) {
	t.Parallel()

	assert.Empty(t, DetectTypos(abandonMnemonic))
	assert.Empty(t, DetectTypos(""))

	typos := DetectTypos("abandon abuot qqqqqqqqqq")
	require.Len(t, typos, 2)

	assert.Equal(t, TypoInfo{Index: 1, Word: "abuot", Suggestion: "about", Distance: 2}, typos[0])
	assert.Equal(t, 2, typos[1].Index)
	assert.Empty(t, typos[1].Suggestion)

	assert.Equal(t,
		"Word 2: 'abuot' - did you mean 'about'?\nWord 3: 'qqqqqqqqqq' is not a valid BIP39 word",
		FormatTypoSuggestions(typos))
	assert.Empty(t, FormatTypoSuggestions(nil))
}

func TestIsValidWord(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidWord("zoo"))
	assert.True(t, IsValidWord("Zoo"))
	assert.False(t, IsValidWord("zooo"))
	assert.False(t, IsValidWord(""))
}
