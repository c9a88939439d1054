package derivation

import "fmt"

// Network selects the Bitcoin network addresses are encoded for.
type Network uint8

const (
	Mainnet Network = iota
	Testnet
	Regtest
)

// NetworkParams holds the per-network encoding parameters.
type NetworkParams struct {
	Name           string
	AddressVersion byte // base58check version byte for P2PKH
}

var networkParams = map[Network]NetworkParams{
	Mainnet: {Name: "mainnet", AddressVersion: 0x00},
	Testnet: {Name: "testnet", AddressVersion: 0x6f},
	Regtest: {Name: "regtest", AddressVersion: 0x6f},
}

// Params returns the encoding parameters of the network.
func (n Network) Params() NetworkParams {
	return networkParams[n]
}

func (n Network) String() string {
	if p, ok := networkParams[n]; ok {
		return p.Name
	}
	return fmt.Sprintf("network(%d)", uint8(n))
}

// ParseNetwork resolves a network name ("mainnet", "testnet", "regtest").
func ParseNetwork(name string) (Network, error) {
	for n, p := range networkParams {
		if p.Name == name {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}
