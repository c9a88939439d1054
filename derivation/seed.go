package derivation

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"math/big"

	"github.com/bsv-blockchain/go-sdk/compat/bip39"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// BIP32 seed length bounds in bytes.
const (
	MinSeedBytes = 16
	MaxSeedBytes = 64
)

// masterHMACKey is the fixed HMAC key for master key generation (BIP32).
var masterHMACKey = []byte("Bitcoin seed")

// MasterKeyFromSeed derives a root extended public key from a BIP32 seed:
//
//	I = HMAC-SHA512("Bitcoin seed", seed)
//	public key = IL*G (compressed), chain code = IR
//
// Hosts backed by a remote signer inject their root key directly instead;
// this helper serves local and regtest deployments.
func MasterKeyFromSeed(seed []byte) (*ExtendedPublicKey, error) {
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, fmt.Errorf("%w: seed must be %d to %d bytes", ErrInvalidSeed, MinSeedBytes, MaxSeedBytes)
	}

	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	sum := mac.Sum(nil)
	il, ir := sum[:32], sum[32:]

	curve := ec.S256()
	ilInt := new(big.Int).SetBytes(il)
	if ilInt.Sign() == 0 || ilInt.Cmp(curve.N) >= 0 {
		return nil, fmt.Errorf("%w: unusable seed", ErrInvalidSeed)
	}

	gx, gy := curve.ScalarBaseMult(il)
	return &ExtendedPublicKey{
		PublicKey: compressPoint(gx, gy),
		ChainCode: append([]byte(nil), ir...),
	}, nil
}

// MasterKeyFromMnemonic derives a root extended public key from a BIP39
// mnemonic and optional passphrase.
func MasterKeyFromMnemonic(mnemonic, passphrase string) (*ExtendedPublicKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}
	return MasterKeyFromSeed(seed)
}
