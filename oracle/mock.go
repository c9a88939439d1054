package oracle

import "context"

// Mock is a test double for Service. Function fields must be set before the
// corresponding method is called.
type Mock struct {
	GetUtxosFn          func(ctx context.Context, req UtxosRequest) (*UtxosResponse, error)
	GetFeePercentilesFn func(ctx context.Context) ([]MillisatoshiPerByte, error)
}

func (m *Mock) GetUtxos(ctx context.Context, req UtxosRequest) (*UtxosResponse, error) {
	return m.GetUtxosFn(ctx, req)
}

func (m *Mock) GetFeePercentiles(ctx context.Context) ([]MillisatoshiPerByte, error) {
	return m.GetFeePercentilesFn(ctx)
}
