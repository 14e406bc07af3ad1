package protocol

import "fmt"

const (
	RejectionCodeOK                    = uint8(0)
	RejectionCodeUnauthorized          = uint8(1)
	RejectionCodeInsufficientFunds     = uint8(2)
	RejectionCodeInsufficientLiquidity = uint8(3)
	RejectionCodeFeeExceedsAmount      = uint8(4)
	RejectionCodeTransferFailed        = uint8(5)
	RejectionCodeInvalidAmount         = uint8(6)
	RejectionCodeSameAsset             = uint8(7)
)

var (
	RejectionCodes = map[uint8]string{
		RejectionCodeUnauthorized:          "Unauthorized",
		RejectionCodeInsufficientFunds:     "Insufficient Funds",
		RejectionCodeInsufficientLiquidity: "Insufficient Liquidity",
		RejectionCodeFeeExceedsAmount:      "Fee Exceeds Amount",
		RejectionCodeTransferFailed:        "Transfer Failed",
		RejectionCodeInvalidAmount:         "Invalid Amount",
		RejectionCodeSameAsset:             "Same Asset",
	}
)

// RejectionText returns the description of a rejection code.
func RejectionText(code uint8) string {
	text, exists := RejectionCodes[code]
	if !exists {
		return fmt.Sprintf("Unknown Rejection Code %d", code)
	}
	return text
}
