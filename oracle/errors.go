package oracle

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed indicates the client could not reach the oracle.
	ErrConnectionFailed = errors.New("oracle: connection failed")

	// ErrInvalidResponse indicates the oracle returned a malformed or
	// unexpected payload.
	ErrInvalidResponse = errors.New("oracle: invalid response")

	// ErrReject indicates the oracle rejected the call. The raw code and
	// message travel in a *RejectError and are passed through uninterpreted.
	ErrReject = errors.New("oracle: call rejected")

	// ErrPaymentFailed indicates the per-call fee could not be settled; the
	// call was not issued.
	ErrPaymentFailed = errors.New("oracle: call payment failed")
)

// RejectError carries the oracle's rejection verbatim. Matches ErrReject via
// errors.Is.
type RejectError struct {
	Code    int
	Message string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("oracle: reject %d: %s", e.Code, e.Message)
}

func (e *RejectError) Unwrap() error { return ErrReject }
