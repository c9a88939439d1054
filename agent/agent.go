// Package agent implements a stateful Bitcoin agent on top of an external
// UTXO/fee oracle: a registry of derived addresses, a per-address UTXO tracker
// with peek/commit update semantics, balance queries, a fee-percentile
// evaluator and a restorable state snapshot.
//
// The agent holds no private keys. It owns a public root key and derives
// child addresses from it; signing, transaction construction and broadcast
// live with the host.
package agent

import (
	"fmt"
	"sync"

	"github.com/btcagentorg/libbtcagent-go/derivation"
	"github.com/btcagentorg/libbtcagent-go/oracle"
)

// Agent tracks addresses derived from a single public root key and the UTXO
// sets the oracle reports for them. All methods are safe for concurrent use:
// a single mutex guards the registry and tracker state, and oracle calls run
// outside it. When two callers refresh the same address concurrently, the
// later writer's snapshot wins.
type Agent struct {
	svc              oracle.Service
	network          derivation.Network
	mainAddressType  derivation.AddressType
	minConfirmations uint32

	rootKey     *derivation.ExtendedPublicKey
	mainAddress string

	mu     sync.Mutex
	keys   map[string]*derivation.ExtendedPublicKey
	states map[string]*UtxosState
}

// New creates an agent owning rootKey. The main address is derived from the
// empty path with the given address type and registered with minConfirmations
// as its tracking threshold; it can never be removed.
func New(svc oracle.Service, rootKey *derivation.ExtendedPublicKey, network derivation.Network, addrType derivation.AddressType, minConfirmations uint32) (*Agent, error) {
	if minConfirmations > oracle.MinConfirmationsUpperBound {
		return nil, fmt.Errorf("%w: %d > %d", ErrMinConfirmationsTooHigh,
			minConfirmations, oracle.MinConfirmationsUpperBound)
	}

	mainKey, mainAddress, err := derivation.Derive(rootKey, nil, addrType, network)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		svc:              svc,
		network:          network,
		mainAddressType:  addrType,
		minConfirmations: minConfirmations,
		rootKey:          rootKey.Clone(),
		mainAddress:      mainAddress,
		keys:             make(map[string]*derivation.ExtendedPublicKey),
		states:           make(map[string]*UtxosState),
	}
	a.keys[mainAddress] = mainKey
	a.states[mainAddress] = newUtxosState(minConfirmations)
	return a, nil
}

// Network returns the network the agent derives addresses for.
func (a *Agent) Network() derivation.Network { return a.network }

// MinConfirmations returns the agent's default confirmation threshold.
func (a *Agent) MinConfirmations() uint32 { return a.minConfirmations }
