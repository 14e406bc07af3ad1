package config

import (
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
)

// Fee is a flat protocol fee deducted from the payout of one settlement operation.
type Fee struct {
	Operation string
	Value     protocol.Amount
}

// ParseFee parses a decimal fee quantity for an operation. Fees can't be negative.
func ParseFee(operation, text string) (Fee, error) {
	value, err := protocol.ParseAmount(text)
	if err != nil {
		return Fee{}, errors.Wrapf(err, "%s fee", operation)
	}

	if value.Sign() < 0 {
		return Fee{}, errors.Errorf("Negative %s fee : %s", operation, text)
	}

	return Fee{Operation: operation, Value: value}, nil
}
