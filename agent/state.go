package agent

import (
	"fmt"
	"sort"

	"github.com/btcagentorg/libbtcagent-go/derivation"
	"github.com/btcagentorg/libbtcagent-go/oracle"
)

// AddressKey is one (address, extended public key) registry entry.
type AddressKey struct {
	Address string                        `json:"address"`
	Key     *derivation.ExtendedPublicKey `json:"key"`
}

// AddressUtxosState is one (address, tracking state) tracker entry.
type AddressUtxosState struct {
	Address string      `json:"address"`
	State   *UtxosState `json:"state"`
}

// AgentState is a full snapshot of an agent, suitable for JSON and gob
// encoding. Entry slices are sorted by address so equal agents produce equal
// snapshots.
type AgentState struct {
	Network          string                        `json:"network"`
	MainAddressType  string                        `json:"main_address_type"`
	RootKey          *derivation.ExtendedPublicKey `json:"root_key"`
	Keys             []AddressKey                  `json:"keys"`
	UtxosStates      []AddressUtxosState           `json:"utxos_states"`
	MinConfirmations uint32                        `json:"min_confirmations"`
}

// State captures the agent's full state. The returned snapshot shares nothing
// with the agent and stays stable while the agent keeps running.
func (a *Agent) State() *AgentState {
	a.mu.Lock()
	defer a.mu.Unlock()

	addresses := make([]string, 0, len(a.keys))
	for address := range a.keys {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	state := &AgentState{
		Network:          a.network.String(),
		MainAddressType:  a.mainAddressType.String(),
		RootKey:          a.rootKey.Clone(),
		MinConfirmations: a.minConfirmations,
	}
	for _, address := range addresses {
		state.Keys = append(state.Keys, AddressKey{
			Address: address,
			Key:     a.keys[address].Clone(),
		})
		state.UtxosStates = append(state.UtxosStates, AddressUtxosState{
			Address: address,
			State:   a.states[address].Clone(),
		})
	}
	return state
}

// FromState rebuilds an agent from a snapshot against a fresh oracle. The
// main address and its key are re-derived from the snapshot's root key rather
// than copied; every other entry is replayed verbatim, so restoring and then
// snapshotting again yields an equal snapshot.
func FromState(svc oracle.Service, state *AgentState) (*Agent, error) {
	if state == nil || state.RootKey == nil {
		return nil, fmt.Errorf("%w: missing root key", ErrInvalidState)
	}
	network, err := derivation.ParseNetwork(state.Network)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	addrType, err := derivation.ParseAddressType(state.MainAddressType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	a, err := New(svc, state.RootKey, network, addrType, state.MinConfirmations)
	if err != nil {
		return nil, err
	}

	for _, entry := range state.Keys {
		if entry.Address == a.mainAddress {
			continue
		}
		if entry.Key == nil {
			return nil, fmt.Errorf("%w: nil key for %s", ErrInvalidState, entry.Address)
		}
		a.keys[entry.Address] = entry.Key.Clone()
	}
	for _, entry := range state.UtxosStates {
		if entry.State == nil {
			return nil, fmt.Errorf("%w: nil utxo state for %s", ErrInvalidState, entry.Address)
		}
		if entry.Address == a.mainAddress {
			// The main entry keeps the freshly constructed threshold; only
			// its observations are carried over.
			a.states[entry.Address].Seen = append([]oracle.Utxo(nil), entry.State.Seen...)
			a.states[entry.Address].Unseen = append([]oracle.Utxo(nil), entry.State.Unseen...)
			continue
		}
		if _, ok := a.keys[entry.Address]; !ok {
			return nil, fmt.Errorf("%w: utxo state for unknown address %s",
				ErrInvalidState, entry.Address)
		}
		a.states[entry.Address] = entry.State.Clone()
	}
	return a, nil
}
