package oracle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// ClientConfig holds the connection parameters for an oracle endpoint.
type ClientConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`

	// Pay settles the fixed fee before each outbound call. Nil means the
	// endpoint is not metered (local development, tests).
	Pay PayFunc `json:"-"`
}

// Client is a JSON-RPC 1.0 client for a remote UTXO/fee oracle. It handles
// request serialization, authentication, per-call payment and response
// parsing.
type Client struct {
	url    string
	user   string
	pass   string
	pay    PayFunc
	client *http.Client
	nextID atomic.Int64
}

// Compile-time interface check.
var _ Service = (*Client)(nil)

// rpcRequest represents a JSON-RPC 1.0 request payload.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// rpcResponse represents a JSON-RPC 1.0 response payload.
type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// rpcError represents an error returned by the JSON-RPC server.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewClient creates an oracle client with the given configuration. The client
// uses HTTP Basic Auth when User is non-empty, and maintains a connection
// pool for efficient reuse.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		url:  cfg.URL,
		user: cfg.User,
		pass: cfg.Password,
		pay:  cfg.Pay,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// call invokes a JSON-RPC method on the oracle, settling cost first when the
// client is metered. Transport failures map to ErrConnectionFailed, decoding
// failures to ErrInvalidResponse, and server-side rejections to a
// *RejectError carrying the raw code and message.
func (c *Client) call(ctx context.Context, method string, cost uint64, params []interface{}, result interface{}) error {
	if c.pay != nil {
		if err := c.pay(cost); err != nil {
			return fmt.Errorf("%w: %w", ErrPaymentFailed, err)
		}
	}

	if params == nil {
		params = []interface{}{}
	}
	reqBody := rpcRequest{
		JSONRPC: "1.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("oracle: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("oracle: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}

	if rpcResp.ID != reqBody.ID {
		return fmt.Errorf("%w: response ID mismatch: expected %d, got %d",
			ErrInvalidResponse, reqBody.ID, rpcResp.ID)
	}

	if rpcResp.Error != nil {
		return &RejectError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: decode result: %w", ErrInvalidResponse, err)
		}
	}
	return nil
}

// utxosParams maps the JSON fields of the get_utxos request object.
type utxosParams struct {
	Address          string `json:"address"`
	MinConfirmations uint32 `json:"min_confirmations"`
	Page             string `json:"page,omitempty"` // base64 continuation token
}

// utxoResult maps the JSON fields of one UTXO in a get_utxos response.
type utxoResult struct {
	TxID   string  `json:"txid"` // display-order hex
	Vout   uint32  `json:"vout"`
	Value  Satoshi `json:"value"`
	Height uint32  `json:"height"`
}

// utxosResult maps the JSON fields of a get_utxos response.
type utxosResult struct {
	Utxos     []utxoResult `json:"utxos"`
	TipHeight uint32       `json:"tip_height"`
	NextPage  string       `json:"next_page,omitempty"`
}

// GetUtxos returns one page of the unspent outputs of an address. It calls
// `get_utxos {address, min_confirmations, page}`.
func (c *Client) GetUtxos(ctx context.Context, req UtxosRequest) (*UtxosResponse, error) {
	params := utxosParams{
		Address:          req.Address,
		MinConfirmations: req.MinConfirmations,
	}
	if len(req.Page) > 0 {
		params.Page = base64.StdEncoding.EncodeToString(req.Page)
	}

	var result utxosResult
	if err := c.call(ctx, "get_utxos", CostGetUtxos, []interface{}{params}, &result); err != nil {
		return nil, err
	}

	resp := &UtxosResponse{TipHeight: result.TipHeight}
	if len(result.Utxos) > 0 {
		resp.Utxos = make([]Utxo, len(result.Utxos))
	}
	for i, r := range result.Utxos {
		txid, err := chainhash.NewHashFromHex(r.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: utxo txid %q: %w", ErrInvalidResponse, r.TxID, err)
		}
		resp.Utxos[i] = Utxo{
			OutPoint: OutPoint{TxID: *txid, Vout: r.Vout},
			Value:    r.Value,
			Height:   r.Height,
		}
	}
	if result.NextPage != "" {
		page, err := base64.StdEncoding.DecodeString(result.NextPage)
		if err != nil {
			return nil, fmt.Errorf("%w: next page token: %w", ErrInvalidResponse, err)
		}
		resp.NextPage = page
	}
	return resp, nil
}

// GetFeePercentiles returns the current fee-percentile table. It calls
// `get_fee_percentiles` with no arguments.
func (c *Client) GetFeePercentiles(ctx context.Context) ([]MillisatoshiPerByte, error) {
	var fees []MillisatoshiPerByte
	if err := c.call(ctx, "get_fee_percentiles", CostGetFeePercentiles, nil, &fees); err != nil {
		return nil, err
	}
	if len(fees) > FeeTableSize {
		return nil, fmt.Errorf("%w: fee table has %d entries, expected at most %d",
			ErrInvalidResponse, len(fees), FeeTableSize)
	}
	return fees, nil
}
