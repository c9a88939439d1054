package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcagentorg/libbtcagent-go/oracle"
)

func TestCurrentFeeNamedTiers(t *testing.T) {
	chain := oracle.NewChainMock()
	a := testAgent(t, chain)

	// The default chain mock table holds (i+1)*1000 at index i.
	tests := []struct {
		name string
		req  FeeRequest
		want oracle.MillisatoshiPerByte
	}{
		{"slow", FeeSlow, 26_000},
		{"standard", FeeStandard, 51_000},
		{"fast", FeeFast, 76_000},
		{"explicit", FeePercentile(0), 1_000},
		{"last", FeePercentile(98), 99_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := a.CurrentFee(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fee)
		})
	}
}

func TestCurrentFeeStaticBound(t *testing.T) {
	var called bool
	mock := &oracle.Mock{
		GetFeePercentilesFn: func(ctx context.Context) ([]oracle.MillisatoshiPerByte, error) {
			called = true
			return nil, nil
		},
	}
	a := testAgent(t, mock)

	_, err := a.CurrentFee(context.Background(), FeePercentile(99))
	assert.ErrorIs(t, err, ErrInvalidPercentile)
	_, err = a.CurrentFee(context.Background(), FeePercentile(-1))
	assert.ErrorIs(t, err, ErrInvalidPercentile)
	assert.False(t, called, "out-of-range percentiles never reach the oracle")
}

func TestCurrentFeeSparseTable(t *testing.T) {
	chain := oracle.NewChainMock()
	chain.SetFeePercentiles([]oracle.MillisatoshiPerByte{100, 200, 300})
	a := testAgent(t, chain)

	fee, err := a.CurrentFee(context.Background(), FeePercentile(2))
	require.NoError(t, err)
	assert.Equal(t, oracle.MillisatoshiPerByte(300), fee)

	_, err = a.CurrentFee(context.Background(), FeePercentile(3))
	assert.ErrorIs(t, err, ErrInvalidPercentile)
	_, err = a.CurrentFee(context.Background(), FeeSlow)
	assert.ErrorIs(t, err, ErrInvalidPercentile)
}

func TestCurrentFeePercentilesPassthrough(t *testing.T) {
	chain := oracle.NewChainMock()
	table := []oracle.MillisatoshiPerByte{7, 8, 9}
	chain.SetFeePercentiles(table)
	a := testAgent(t, chain)

	fees, err := a.CurrentFeePercentiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, table, fees)
}

func TestCurrentFeeOracleErrorPassthrough(t *testing.T) {
	chain := oracle.NewChainMock()
	chain.Err = &oracle.RejectError{Code: 3, Message: "temporarily unavailable"}
	a := testAgent(t, chain)

	_, err := a.CurrentFee(context.Background(), FeeStandard)
	require.Error(t, err)
	assert.ErrorIs(t, err, oracle.ErrReject)

	var reject *oracle.RejectError
	require.ErrorAs(t, err, &reject)
	assert.Equal(t, 3, reject.Code)
	assert.Equal(t, "temporarily unavailable", reject.Message)
}
