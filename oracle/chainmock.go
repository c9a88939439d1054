package oracle

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// ChainMock is an in-memory oracle backed by a simulated chain: per-address
// UTXO lists, a tip height, and a fee-percentile table. It filters by
// confirmation depth exactly like the real network
// (height <= tip + 1 - minConfirmations) and paginates responses when a page
// size is set, so callers exercise the same loop they run in production.
type ChainMock struct {
	mu       sync.Mutex
	utxos    map[string][]Utxo
	tip      uint32
	fees     []MillisatoshiPerByte
	pageSize int

	// Err, when non-nil, is returned by every call. Lets tests drive the
	// failure paths, e.g. with a *RejectError.
	Err error
}

// Compile-time interface check.
var _ Service = (*ChainMock)(nil)

// NewChainMock creates a simulated chain with the tip at the confirmation
// upper bound (so a height-1 UTXO is fully confirmed) and a dense default fee
// table.
func NewChainMock() *ChainMock {
	fees := make([]MillisatoshiPerByte, FeeTableSize)
	for i := range fees {
		fees[i] = uint64(i+1) * 1_000
	}
	return &ChainMock{
		utxos: make(map[string][]Utxo),
		tip:   MinConfirmationsUpperBound,
		fees:  fees,
	}
}

// AddUtxo credits an address with an output confirmed at the given height.
func (c *ChainMock) AddUtxo(address string, txid chainhash.Hash, vout uint32, value Satoshi, height uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.utxos[address] = append(c.utxos[address], Utxo{
		OutPoint: OutPoint{TxID: txid, Vout: vout},
		Value:    value,
		Height:   height,
	})
}

// SpendUtxo removes the output with the given outpoint from an address.
// Returns whether it was present.
func (c *ChainMock) SpendUtxo(address string, outpoint OutPoint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.utxos[address]
	for i, u := range list {
		if u.OutPoint == outpoint {
			c.utxos[address] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// AdvanceTip mines n empty blocks.
func (c *ChainMock) AdvanceTip(n uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tip += n
}

// TipHeight returns the current simulated tip.
func (c *ChainMock) TipHeight() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tip
}

// SetFeePercentiles replaces the fee table (may be shorter than FeeTableSize
// to simulate sparse history).
func (c *ChainMock) SetFeePercentiles(fees []MillisatoshiPerByte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fees = append([]MillisatoshiPerByte(nil), fees...)
}

// SetPageSize caps the number of UTXOs per GetUtxos response; zero disables
// pagination.
func (c *ChainMock) SetPageSize(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageSize = n
}

// GetUtxos returns one page of the address's confirmed UTXOs.
func (c *ChainMock) GetUtxos(_ context.Context, req UtxosRequest) (*UtxosResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}

	var confirmed []Utxo
	for _, u := range c.utxos[req.Address] {
		if hasMinConfirmations(u, c.tip, req.MinConfirmations) {
			confirmed = append(confirmed, u)
		}
	}

	offset := 0
	if len(req.Page) > 0 {
		o, err := decodePageToken(req.Page)
		if err != nil {
			return nil, err
		}
		offset = o
	}
	if offset > len(confirmed) {
		return nil, fmt.Errorf("%w: page token beyond result set", ErrInvalidResponse)
	}

	end := len(confirmed)
	var next []byte
	if c.pageSize > 0 && offset+c.pageSize < len(confirmed) {
		end = offset + c.pageSize
		next = encodePageToken(end)
	}

	return &UtxosResponse{
		Utxos:     append([]Utxo(nil), confirmed[offset:end]...),
		TipHeight: c.tip,
		NextPage:  next,
	}, nil
}

// GetFeePercentiles returns the configured fee table.
func (c *ChainMock) GetFeePercentiles(_ context.Context) ([]MillisatoshiPerByte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]MillisatoshiPerByte(nil), c.fees...), nil
}

// hasMinConfirmations reports whether a UTXO is buried at least
// minConfirmations deep at the given tip.
func hasMinConfirmations(u Utxo, tip, minConfirmations uint32) bool {
	// Rearranged from height <= tip+1-minConfirmations to avoid underflow.
	return u.Height+minConfirmations <= tip+1
}

func encodePageToken(offset int) []byte {
	token := make([]byte, 4)
	binary.BigEndian.PutUint32(token, uint32(offset))
	return token
}

func decodePageToken(token []byte) (int, error) {
	if len(token) != 4 {
		return 0, fmt.Errorf("%w: malformed page token", ErrInvalidResponse)
	}
	return int(binary.BigEndian.Uint32(token)), nil
}
