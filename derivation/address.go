package derivation

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
)

// AddressType is the closed set of supported address encodings. P2PKH is the
// only member today; the switch in AddressFromPublicKey is the extension point
// for future script types.
type AddressType uint8

const (
	P2PKH AddressType = iota
)

func (t AddressType) String() string {
	switch t {
	case P2PKH:
		return "p2pkh"
	default:
		return fmt.Sprintf("addresstype(%d)", uint8(t))
	}
}

// ParseAddressType resolves an address type name.
func ParseAddressType(name string) (AddressType, error) {
	switch name {
	case "p2pkh":
		return P2PKH, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAddressType, name)
	}
}

// AddressFromPublicKey encodes a compressed public key as an address of the
// given type for the given network. P2PKH:
// base58check(version || HASH160(pubkey)).
func AddressFromPublicKey(publicKey []byte, addrType AddressType, network Network) (string, error) {
	pub, err := ec.PublicKeyFromBytes(publicKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	switch addrType {
	case P2PKH:
		// Testnet and regtest share the 0x6f version byte.
		addr, err := script.NewAddressFromPublicKey(pub, network == Mainnet)
		if err != nil {
			return "", fmt.Errorf("%w: p2pkh encoding: %w", ErrDerivationFailed, err)
		}
		return addr.AddressString, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAddressType, addrType)
	}
}
