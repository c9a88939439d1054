// Package oracle defines the boundary to the external asynchronous UTXO/fee
// oracle. All network truth reaches the agent through this one interface;
// implementations pay the fixed per-call fee before issuing each request and
// never retry on the caller's behalf.
package oracle

import (
	"context"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// Satoshi is an amount in the smallest on-chain unit.
type Satoshi = uint64

// MillisatoshiPerByte is a fee rate in millisatoshi per byte.
type MillisatoshiPerByte = uint64

// MinConfirmationsUpperBound is the highest confirmation threshold the oracle
// accepts.
const MinConfirmationsUpperBound uint32 = 6

// FeeTableSize is the full length of the fee-percentile table: one entry per
// percentile 0 through 98. The oracle may return fewer entries when recent
// transaction history is sparse.
const FeeTableSize = 99

// Fixed per-call costs in oracle credit units, paid before each call.
const (
	CostGetUtxos          uint64 = 100_000_000
	CostGetFeePercentiles uint64 = 100_000_000
)

// OutPoint identifies a transaction output.
type OutPoint struct {
	TxID chainhash.Hash `json:"txid"`
	Vout uint32         `json:"vout"`
}

// Utxo is one unspent transaction output. Identity is structural equality of
// all fields: a UTXO whose reported height changes between observations is a
// different record.
type Utxo struct {
	OutPoint OutPoint `json:"outpoint"`
	Value    Satoshi  `json:"value"`
	Height   uint32   `json:"height"` // block height of the confirming block
}

// UtxosRequest selects one page of an address's UTXO set. Page is nil for the
// first request; subsequent requests carry the opaque continuation token from
// the previous response and must keep the other fields unchanged.
type UtxosRequest struct {
	Address          string
	MinConfirmations uint32
	Page             []byte
}

// UtxosResponse is one page of an address's UTXO set at the requested
// confirmation threshold. NextPage is nil on the final page.
type UtxosResponse struct {
	Utxos     []Utxo
	TipHeight uint32
	NextPage  []byte
}

// Service is the UTXO/fee oracle interface.
type Service interface {
	// GetUtxos returns one page of the unspent outputs of an address,
	// restricted to outputs with at least the requested number of
	// confirmations.
	GetUtxos(ctx context.Context, req UtxosRequest) (*UtxosResponse, error)

	// GetFeePercentiles returns fee rates at percentiles 0..98 over recent
	// transactions, ascending by percentile index. The table may be shorter
	// than FeeTableSize when history is sparse.
	GetFeePercentiles(ctx context.Context) ([]MillisatoshiPerByte, error)
}

// PayFunc settles the fixed fee of one outbound oracle call. Implementations
// that charge per call invoke it immediately before issuing the request; a
// non-nil error aborts the call.
type PayFunc func(cost uint64) error
