package agent

import (
	"context"
	"fmt"

	"github.com/btcagentorg/libbtcagent-go/oracle"
)

// UtxosState is the tracker record of one address: the UTXO set the caller
// has acknowledged (Seen), the set most recently fetched from the oracle
// (Unseen), and the confirmation threshold every fetch for this address uses.
type UtxosState struct {
	Seen             []oracle.Utxo `json:"seen"`
	Unseen           []oracle.Utxo `json:"unseen"`
	MinConfirmations uint32        `json:"min_confirmations"`
}

func newUtxosState(minConfirmations uint32) *UtxosState {
	return &UtxosState{MinConfirmations: minConfirmations}
}

// Clone returns a deep copy.
func (s *UtxosState) Clone() *UtxosState {
	return &UtxosState{
		Seen:             append([]oracle.Utxo(nil), s.Seen...),
		Unseen:           append([]oracle.Utxo(nil), s.Unseen...),
		MinConfirmations: s.MinConfirmations,
	}
}

// UtxosUpdate is the difference between two observations of an address's UTXO
// set: outputs that appeared and outputs that disappeared. A UTXO whose
// reported height changed counts as both removed and added.
type UtxosUpdate struct {
	Added   []oracle.Utxo `json:"added"`
	Removed []oracle.Utxo `json:"removed"`
}

// BalanceUpdate is a UtxosUpdate reduced to value sums.
type BalanceUpdate struct {
	Added   oracle.Satoshi `json:"added"`
	Removed oracle.Satoshi `json:"removed"`
}

// diffUtxos computes the structural set difference between two UTXO
// observations, preserving the slice order of each side.
func diffUtxos(seen, unseen []oracle.Utxo) UtxosUpdate {
	seenSet := make(map[oracle.Utxo]struct{}, len(seen))
	for _, u := range seen {
		seenSet[u] = struct{}{}
	}
	unseenSet := make(map[oracle.Utxo]struct{}, len(unseen))
	for _, u := range unseen {
		unseenSet[u] = struct{}{}
	}

	var update UtxosUpdate
	for _, u := range unseen {
		if _, ok := seenSet[u]; !ok {
			update.Added = append(update.Added, u)
		}
	}
	for _, u := range seen {
		if _, ok := unseenSet[u]; !ok {
			update.Removed = append(update.Removed, u)
		}
	}
	return update
}

// fetchAllUtxos pages through the oracle until the final page, strictly in
// sequence, and concatenates the results.
func (a *Agent) fetchAllUtxos(ctx context.Context, address string, minConfirmations uint32) ([]oracle.Utxo, uint32, error) {
	var utxos []oracle.Utxo
	var tip uint32
	var page []byte
	for {
		resp, err := a.svc.GetUtxos(ctx, oracle.UtxosRequest{
			Address:          address,
			MinConfirmations: minConfirmations,
			Page:             page,
		})
		if err != nil {
			return nil, 0, err
		}
		utxos = append(utxos, resp.Utxos...)
		tip = resp.TipHeight
		if resp.NextPage == nil {
			return utxos, tip, nil
		}
		page = resp.NextPage
	}
}

// PeekUtxosUpdate fetches the current UTXO set of a tracked address at its
// tracked confirmation threshold, stores it as the unseen set and returns the
// difference against the seen set. The seen set does not advance: repeated
// peeks without a commit report the same outputs again. Oracle failures
// propagate unchanged and leave the tracking state untouched.
func (a *Agent) PeekUtxosUpdate(ctx context.Context, address string) (UtxosUpdate, error) {
	a.mu.Lock()
	state, ok := a.states[address]
	if !ok {
		a.mu.Unlock()
		return UtxosUpdate{}, fmt.Errorf("%w: %s", ErrAddressNotTracked, address)
	}
	minConfirmations := state.MinConfirmations
	a.mu.Unlock()

	fetched, _, err := a.fetchAllUtxos(ctx, address, minConfirmations)
	if err != nil {
		return UtxosUpdate{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// The address may have been removed while the fetch was in flight.
	state, ok = a.states[address]
	if !ok {
		return UtxosUpdate{}, fmt.Errorf("%w: %s", ErrAddressNotTracked, address)
	}
	state.Unseen = fetched
	return diffUtxos(state.Seen, state.Unseen), nil
}

// CommitState acknowledges the most recently peeked UTXO set: the seen set
// becomes the unseen set. Purely local, no oracle call.
func (a *Agent) CommitState(address string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	state, ok := a.states[address]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAddressNotTracked, address)
	}
	state.Seen = append([]oracle.Utxo(nil), state.Unseen...)
	return nil
}

// GetUtxosUpdate peeks and immediately commits: the returned difference is
// reported exactly once. The first call on a fresh address reports the full
// UTXO set as added.
func (a *Agent) GetUtxosUpdate(ctx context.Context, address string) (UtxosUpdate, error) {
	update, err := a.PeekUtxosUpdate(ctx, address)
	if err != nil {
		return UtxosUpdate{}, err
	}
	if err := a.CommitState(address); err != nil {
		return UtxosUpdate{}, err
	}
	return update, nil
}

// PeekBalanceUpdate is PeekUtxosUpdate reduced to value sums.
func (a *Agent) PeekBalanceUpdate(ctx context.Context, address string) (BalanceUpdate, error) {
	update, err := a.PeekUtxosUpdate(ctx, address)
	if err != nil {
		return BalanceUpdate{}, err
	}
	return sumUpdate(update), nil
}

// GetBalanceUpdate is GetUtxosUpdate reduced to value sums.
func (a *Agent) GetBalanceUpdate(ctx context.Context, address string) (BalanceUpdate, error) {
	update, err := a.GetUtxosUpdate(ctx, address)
	if err != nil {
		return BalanceUpdate{}, err
	}
	return sumUpdate(update), nil
}

func sumUpdate(update UtxosUpdate) BalanceUpdate {
	var balance BalanceUpdate
	for _, u := range update.Added {
		balance.Added += u.Value
	}
	for _, u := range update.Removed {
		balance.Removed += u.Value
	}
	return balance
}

// GetUtxos fetches the full UTXO set of any address at an explicit
// confirmation threshold. One-shot: the address need not be tracked and no
// tracking state is read or written.
func (a *Agent) GetUtxos(ctx context.Context, address string, minConfirmations uint32) ([]oracle.Utxo, error) {
	if minConfirmations > oracle.MinConfirmationsUpperBound {
		return nil, fmt.Errorf("%w: %d > %d", ErrMinConfirmationsTooHigh,
			minConfirmations, oracle.MinConfirmationsUpperBound)
	}
	utxos, _, err := a.fetchAllUtxos(ctx, address, minConfirmations)
	return utxos, err
}

// GetBalance fetches the confirmed balance of any address at an explicit
// confirmation threshold. One-shot, like GetUtxos.
func (a *Agent) GetBalance(ctx context.Context, address string, minConfirmations uint32) (oracle.Satoshi, error) {
	utxos, err := a.GetUtxos(ctx, address, minConfirmations)
	if err != nil {
		return 0, err
	}
	var balance oracle.Satoshi
	for _, u := range utxos {
		balance += u.Value
	}
	return balance, nil
}
