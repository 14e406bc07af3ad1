package settlement

import (
	"fmt"

	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
)

var (
	// ErrAuthorization is returned when the caller did not authorize the exact parameters of
	//   the call.
	ErrAuthorization = RejectError{Code: protocol.RejectionCodeUnauthorized}

	// ErrInsufficientFunds is returned when the sender holds less than the amount.
	ErrInsufficientFunds = RejectError{Code: protocol.RejectionCodeInsufficientFunds}

	// ErrInsufficientLiquidity is returned when the contract's reserve of the receive asset can't
	//   cover the payout.
	ErrInsufficientLiquidity = RejectError{Code: protocol.RejectionCodeInsufficientLiquidity}

	// ErrFeeExceedsAmount is returned when the fee leaves nothing to pay out.
	ErrFeeExceedsAmount = RejectError{Code: protocol.RejectionCodeFeeExceedsAmount}

	// ErrTransfer is returned when the ledger rejects a transfer.
	ErrTransfer = RejectError{Code: protocol.RejectionCodeTransferFailed}

	// ErrInvalidAmount is returned for negative amounts.
	ErrInvalidAmount = RejectError{Code: protocol.RejectionCodeInvalidAmount}

	// ErrSameAsset is returned when an exchange or swap names the same asset on both sides.
	ErrSameAsset = RejectError{Code: protocol.RejectionCodeSameAsset}

	// ErrUnknownOperation is returned when a fee is requested for an operation that doesn't
	//   charge one.
	ErrUnknownOperation = errors.New("Unknown operation")
)

// RejectError is the reason a settlement was refused. The engine returns the sentinels wrapped
//   with context, so errors.Cause(err) yields one of the Err values above.
type RejectError struct {
	Code uint8
	Text string
}

func (err RejectError) Error() string {
	if len(err.Text) == 0 {
		return protocol.RejectionText(err.Code)
	}
	return fmt.Sprintf("%s - %s", protocol.RejectionText(err.Code), err.Text)
}

// reject wraps a sentinel with a description of the failure.
func reject(sentinel RejectError, format string, values ...interface{}) error {
	return errors.Wrapf(sentinel, format, values...)
}

// RejectionCode returns the rejection code of an error returned by the engine, or
//   RejectionCodeOK when the error isn't a rejection.
func RejectionCode(err error) uint8 {
	if r, ok := errors.Cause(err).(RejectError); ok {
		return r.Code
	}
	return protocol.RejectionCodeOK
}
