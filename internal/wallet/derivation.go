package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"

	"github.com/mrz1836/evmscan/internal/secure"
)

// DefaultDerivationPath is the first external account of the Ethereum coin type.
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

// ethPath is DefaultDerivationPath as child indexes.
var ethPath = []uint32{ //nolint:gochecknoglobals // fixed BIP44 path
	bip32.FirstHardenedChild + 44,
	bip32.FirstHardenedChild + 60,
	bip32.FirstHardenedChild + 0,
	0,
	0,
}

// DeriveAddress returns the EIP-55 checksummed address at
// DefaultDerivationPath for mnemonic, using an empty BIP39 passphrase.
// It has the scan.Deriver signature.
func DeriveAddress(mnemonic string) (string, error) {
	seed, err := MnemonicToSeed(mnemonic, "")
	if err != nil {
		return "", err
	}
	defer secure.Zero(seed)

	addr, err := addressFromSeed(seed, ethPath)
	if err != nil {
		return "", err
	}
	return addr.Hex(), nil
}

// addressFromSeed walks path from the BIP32 master key of seed.
func addressFromSeed(seed []byte, path []uint32) (common.Address, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to create master key: %w", err)
	}

	for depth, idx := range path {
		padPrivateKey(key)
		key, err = key.NewChildKey(idx)
		if err != nil {
			return common.Address{}, fmt.Errorf("failed to derive child at depth %d: %w", depth+1, err)
		}
	}
	padPrivateKey(key)

	priv, err := crypto.ToECDSA(key.Key)
	defer secure.Zero(key.Key)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to load private key: %w", err)
	}

	return crypto.PubkeyToAddress(priv.PublicKey), nil
}

// padPrivateKey restores the 32-byte form of a private key whose leading
// zero bytes were dropped during child derivation.
func padPrivateKey(key *bip32.Key) {
	if key.IsPrivate && len(key.Key) < 32 {
		key.Key = common.LeftPadBytes(key.Key, 32)
	}
}
