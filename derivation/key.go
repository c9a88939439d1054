package derivation

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"math/big"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

const (
	// maxPathSegments bounds the number of child indices in one derivation.
	maxPathSegments = 255

	// maxRawPathBits bounds the raw path bit length before bit-packing.
	maxRawPathBits = maxPathSegments * indexBits

	chainCodeLen = 64 / 2
)

// ExtendedPublicKey is a public key plus chain code, enabling deterministic
// derivation of non-hardened child public keys without any private material.
// Values are immutable: every derivation step returns a fresh key.
type ExtendedPublicKey struct {
	PublicKey []byte   `json:"public_key"` // SEC1 compressed, 33 bytes
	ChainCode []byte   `json:"chain_code"` // 32 bytes; empty for injected root keys
	Path      [][]byte `json:"path"`       // recorded child index words from the root
}

// Clone returns a deep copy of the key.
func (k *ExtendedPublicKey) Clone() *ExtendedPublicKey {
	c := &ExtendedPublicKey{
		PublicKey: append([]byte(nil), k.PublicKey...),
		ChainCode: append([]byte(nil), k.ChainCode...),
	}
	if k.Path != nil {
		c.Path = make([][]byte, len(k.Path))
		for i, seg := range k.Path {
			c.Path[i] = append([]byte(nil), seg...)
		}
	}
	return c
}

// Equal reports whether two keys hold the same public key, chain code and
// recorded path.
func (k *ExtendedPublicKey) Equal(other *ExtendedPublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	if !bytes.Equal(k.PublicKey, other.PublicKey) || !bytes.Equal(k.ChainCode, other.ChainCode) {
		return false
	}
	if len(k.Path) != len(other.Path) {
		return false
	}
	for i := range k.Path {
		if !bytes.Equal(k.Path[i], other.Path[i]) {
			return false
		}
	}
	return true
}

// Derive bit-packs rawPath into 31-bit child index words, folds non-hardened
// public child derivation over them starting from parent, and encodes the
// resulting public key as an address of the requested type.
//
// The child's recorded Path is the parent's path followed by the packed words,
// so a derived key can be re-derived from the root by replaying Path with
// DeriveWithPath.
//
// Returns ErrDerivationPathTooLong, without touching the codec, when the raw
// path exceeds 255 31-bit words. Hardened derivation is not supported: every
// packed word has its top bit clear.
func Derive(parent *ExtendedPublicKey, rawPath []byte, addrType AddressType, network Network) (*ExtendedPublicKey, string, error) {
	if 8*len(rawPath) > maxRawPathBits {
		return nil, "", ErrDerivationPathTooLong
	}
	return DeriveWithPath(parent, ChildIndices(rawPath), addrType, network)
}

// DeriveWithPath folds non-hardened public child derivation over explicit
// path segments. Segments are normally the 4-byte words produced by
// ChildIndices, but any byte strings are accepted when replaying a recorded
// path.
func DeriveWithPath(parent *ExtendedPublicKey, path [][]byte, addrType AddressType, network Network) (*ExtendedPublicKey, string, error) {
	if len(path) > maxPathSegments {
		return nil, "", ErrDerivationPathTooLong
	}

	publicKey := append([]byte(nil), parent.PublicKey...)
	chainCode := parent.ChainCode
	// Root keys delivered by threshold-ECDSA signers carry no chain code;
	// derivation starts from 32 zero bytes.
	if len(chainCode) == 0 {
		chainCode = make([]byte, chainCodeLen)
	} else {
		chainCode = append([]byte(nil), chainCode...)
	}

	for _, index := range path {
		childKey, childChain, err := ckdPub(publicKey, chainCode, index)
		if err != nil {
			return nil, "", err
		}
		publicKey = childKey
		chainCode = childChain
	}

	child := &ExtendedPublicKey{
		PublicKey: publicKey,
		ChainCode: chainCode,
		Path:      make([][]byte, 0, len(parent.Path)+len(path)),
	}
	for _, seg := range parent.Path {
		child.Path = append(child.Path, append([]byte(nil), seg...))
	}
	for _, seg := range path {
		child.Path = append(child.Path, append([]byte(nil), seg...))
	}

	address, err := AddressFromPublicKey(child.PublicKey, addrType, network)
	if err != nil {
		return nil, "", err
	}
	return child, address, nil
}

// ckdPub performs one step of BIP32 public child key derivation:
//
//	I = HMAC-SHA512(chainCode, serP(parent) || index)
//	child point = parent point + IL*G, child chain code = IR
//
// The index is hashed as supplied; the 4-byte words from ChildIndices make
// this the standard non-hardened CKDpub.
func ckdPub(publicKey, chainCode, index []byte) ([]byte, []byte, error) {
	parent, err := ec.PublicKeyFromBytes(publicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(publicKey)
	mac.Write(index)
	sum := mac.Sum(nil)
	il, ir := sum[:32], sum[32:]

	curve := ec.S256()
	ilInt := new(big.Int).SetBytes(il)
	if ilInt.Sign() == 0 || ilInt.Cmp(curve.N) >= 0 {
		return nil, nil, fmt.Errorf("%w: tweak outside curve order", ErrDerivationFailed)
	}

	gx, gy := curve.ScalarBaseMult(il)
	childX, childY := curve.Add(parent.X, parent.Y, gx, gy)
	if childX.Sign() == 0 && childY.Sign() == 0 {
		return nil, nil, fmt.Errorf("%w: child point at infinity", ErrDerivationFailed)
	}

	return compressPoint(childX, childY), append([]byte(nil), ir...), nil
}

// compressPoint serializes a curve point in SEC1 compressed form.
func compressPoint(x, y *big.Int) []byte {
	out := make([]byte, 33)
	if y.Bit(0) == 1 {
		out[0] = 0x03
	} else {
		out[0] = 0x02
	}
	x.FillBytes(out[1:])
	return out
}
