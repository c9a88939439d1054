package agent

import (
	"fmt"
	"sort"

	"github.com/btcagentorg/libbtcagent-go/derivation"
	"github.com/btcagentorg/libbtcagent-go/oracle"
)

// MainAddress returns the address derived from the empty path at
// construction.
func (a *Agent) MainAddress() string { return a.mainAddress }

// AddAddress derives and registers the address at rawPath using the agent's
// default address type and confirmation threshold.
func (a *Agent) AddAddress(rawPath []byte) (string, error) {
	return a.AddAddressWithParameters(rawPath, a.mainAddressType, a.minConfirmations)
}

// AddAddressWithParameters derives the address at rawPath with an explicit
// address type and confirmation threshold and starts tracking it with an
// empty UTXO state. Registering an address the agent already tracks is a
// no-op that keeps the existing tracking state. Both argument checks run
// before any derivation work.
func (a *Agent) AddAddressWithParameters(rawPath []byte, addrType derivation.AddressType, minConfirmations uint32) (string, error) {
	if minConfirmations > oracle.MinConfirmationsUpperBound {
		return "", fmt.Errorf("%w: %d > %d", ErrMinConfirmationsTooHigh,
			minConfirmations, oracle.MinConfirmationsUpperBound)
	}

	key, address, err := derivation.Derive(a.rootKey, rawPath, addrType, a.network)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.keys[address]; ok {
		return address, nil
	}
	a.keys[address] = key
	a.states[address] = newUtxosState(minConfirmations)
	return address, nil
}

// RemoveAddress stops tracking an address and discards its key and UTXO
// state. Returns false for the main address and for addresses the agent does
// not track.
func (a *Agent) RemoveAddress(address string) bool {
	if address == a.mainAddress {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.keys[address]; !ok {
		return false
	}
	delete(a.keys, address)
	delete(a.states, address)
	return true
}

// ListAddresses returns every tracked address, sorted.
func (a *Agent) ListAddresses() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	addresses := make([]string, 0, len(a.keys))
	for address := range a.keys {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)
	return addresses
}

// PublicKey returns a copy of the extended public key of a tracked address.
func (a *Agent) PublicKey(address string) (*derivation.ExtendedPublicKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key, ok := a.keys[address]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAddressNotTracked, address)
	}
	return key.Clone(), nil
}
