package agent

import (
	"context"
	"fmt"

	"github.com/btcagentorg/libbtcagent-go/oracle"
)

// FeeRequest selects an entry of the oracle's fee-percentile table, either by
// named tier or by explicit percentile.
type FeeRequest struct {
	percentile int
}

// Named fee tiers.
var (
	FeeSlow     = FeeRequest{percentile: 25}
	FeeStandard = FeeRequest{percentile: 50}
	FeeFast     = FeeRequest{percentile: 75}
)

// FeePercentile requests the fee rate at an explicit percentile in [0, 99).
func FeePercentile(n int) FeeRequest {
	return FeeRequest{percentile: n}
}

// ResolvePercentile maps a request to its table index. Percentiles outside
// [0, 99) are rejected here, before any oracle call; whether the index exists
// in the table the oracle actually returns is checked by CurrentFee.
func ResolvePercentile(req FeeRequest) (int, error) {
	if req.percentile < 0 || req.percentile >= oracle.FeeTableSize {
		return 0, fmt.Errorf("%w: %d not in [0, %d)",
			ErrInvalidPercentile, req.percentile, oracle.FeeTableSize)
	}
	return req.percentile, nil
}

// CurrentFee returns the fee rate at the requested percentile of the oracle's
// current table. ErrInvalidPercentile when the table is too short for the
// requested index, which happens when recent transaction history is sparse.
func (a *Agent) CurrentFee(ctx context.Context, req FeeRequest) (oracle.MillisatoshiPerByte, error) {
	idx, err := ResolvePercentile(req)
	if err != nil {
		return 0, err
	}
	fees, err := a.svc.GetFeePercentiles(ctx)
	if err != nil {
		return 0, err
	}
	if idx >= len(fees) {
		return 0, fmt.Errorf("%w: percentile %d beyond table of %d entries",
			ErrInvalidPercentile, idx, len(fees))
	}
	return fees[idx], nil
}

// CurrentFeePercentiles returns the oracle's fee table unmodified.
func (a *Agent) CurrentFeePercentiles(ctx context.Context) ([]oracle.MillisatoshiPerByte, error) {
	return a.svc.GetFeePercentiles(ctx)
}
