package derivation

import "errors"

var (
	// ErrDerivationPathTooLong indicates the raw path exceeds 255 31-bit child
	// indices once bit-packed.
	ErrDerivationPathTooLong = errors.New("derivation: derivation path too long")

	// ErrDerivationFailed indicates child key derivation produced an invalid
	// curve point or scalar. Not reachable for practically occurring inputs.
	ErrDerivationFailed = errors.New("derivation: key derivation failed")

	// ErrInvalidKey indicates the supplied public key bytes do not decode to a
	// point on secp256k1.
	ErrInvalidKey = errors.New("derivation: invalid public key")

	// ErrInvalidSeed indicates the seed is empty or outside the BIP32 bounds.
	ErrInvalidSeed = errors.New("derivation: invalid seed")

	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("derivation: invalid BIP39 mnemonic")

	// ErrUnsupportedAddressType indicates an address type outside the closed
	// set. Only reachable through a caller-constructed invalid constant.
	ErrUnsupportedAddressType = errors.New("derivation: unsupported address type")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("derivation: invalid network name")
)
