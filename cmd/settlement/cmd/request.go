package cmd

import (
	"fmt"

	"github.com/tokenized/settlement/internal/settlement"
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
)

// request holds the parsed arguments of a mutating operation. The arguments after the account
//   are the same for authorize and for the operation itself.
type request struct {
	function     string
	receiver     bitcoin.RawAddress
	sendAsset    protocol.AssetCode
	receiveAsset protocol.AssetCode
	amount       protocol.Amount
}

var argCounts = map[string]int{
	settlement.FunctionSend:     3, // receiver asset amount
	settlement.FunctionExchange: 4, // receiver sendAsset receiveAsset amount
	settlement.FunctionSwap:     4,
	settlement.FunctionLoad:     2, // asset amount
}

func parseRequest(function string, args []string) (*request, error) {
	count, exists := argCounts[function]
	if !exists {
		return nil, fmt.Errorf("Unknown function : %s", function)
	}
	if len(args) != count {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", function, count, len(args))
	}

	result := &request{function: function}
	var err error

	if function != settlement.FunctionLoad {
		result.receiver, err = bitcoin.DecodeAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "receiver")
		}
		args = args[1:]
	}

	result.sendAsset = parseAsset(args[0])

	if function == settlement.FunctionExchange || function == settlement.FunctionSwap {
		result.receiveAsset = parseAsset(args[1])
		args = args[1:]
	}

	result.amount, err = protocol.ParseAmount(args[1])
	if err != nil {
		return nil, errors.Wrap(err, "amount")
	}

	return result, nil
}

// scope returns the authorization scope the engine requires for the request.
func (r *request) scope(contract bitcoin.RawAddress) protocol.AuthScope {
	switch r.function {
	case settlement.FunctionSend:
		return protocol.NewAuthScope(contract, r.function, r.receiver, r.sendAsset, r.amount)
	case settlement.FunctionLoad:
		return protocol.NewAuthScope(contract, r.function, r.sendAsset, r.amount)
	default:
		return protocol.NewAuthScope(contract, r.function, r.receiver, r.sendAsset,
			r.receiveAsset, r.amount)
	}
}

// parseAsset accepts a 32 byte hex asset code or an asset name.
func parseAsset(s string) protocol.AssetCode {
	if len(s) == 64 {
		if code, err := protocol.AssetCodeFromString(s); err == nil {
			return code
		}
	}

	return protocol.AssetCodeForName(s)
}
