package cmd

import (
	"context"
	"testing"

	"github.com/tokenized/settlement/internal/authority"
	"github.com/tokenized/settlement/internal/platform/tests"
	"github.com/tokenized/settlement/internal/settlement"
	"github.com/tokenized/settlement/pkg/protocol"
)

func TestParseRequest(t *testing.T) {
	defer tests.Recover(t)

	receiver := tests.GenerateKey(t).Address()
	code := protocol.AssetCodeForName("Y")

	var tt = []struct {
		function string
		args     []string
		valid    bool
	}{
		{settlement.FunctionSend, []string{receiver.String(), "X", "1.5"}, true},
		{settlement.FunctionExchange, []string{receiver.String(), "X", code.String(), "1"}, true},
		{settlement.FunctionSwap, []string{receiver.String(), "X", "Y", "0.0000001"}, true},
		{settlement.FunctionLoad, []string{"X", "1000"}, true},
		{settlement.FunctionSend, []string{receiver.String(), "X"}, false},
		{settlement.FunctionSend, []string{"nope", "X", "1"}, false},
		{settlement.FunctionLoad, []string{"X", "0.00000001"}, false},
		{"mint", []string{"X", "1"}, false},
	}

	for _, tc := range tt {
		req, err := parseRequest(tc.function, tc.args)
		if tc.valid && err != nil {
			t.Fatalf("\t%s\tFailed to parse %s %v : %v", tests.Failed, tc.function, tc.args, err)
		}
		if !tc.valid {
			if err == nil {
				t.Fatalf("\t%s\tAccepted %s %v", tests.Failed, tc.function, tc.args)
			}
			continue
		}

		if tc.function == settlement.FunctionExchange && !req.receiveAsset.Equal(code) {
			t.Fatalf("\t%s\tHex asset code not decoded", tests.Failed)
		}
		if tc.function == settlement.FunctionSwap && !req.receiveAsset.Equal(code) {
			t.Fatalf("\t%s\tAsset name not hashed", tests.Failed)
		}
		t.Logf("\t%s\tParsed %s %v", tests.Success, tc.function, tc.args)
	}
}

// Proofs for parsed requests must satisfy the engine.
func TestRequestScope(t *testing.T) {
	defer tests.Recover(t)

	test := tests.New()
	defer test.Close()

	ctx := test.Context
	senderKey := tests.GenerateKey(t)
	sender := senderKey.Address()
	receiver := tests.GenerateKey(t).Address()
	assetX := protocol.AssetCodeForName("X")
	assetY := protocol.AssetCodeForName("Y")

	ledger := tests.NewMockLedger()
	engine := settlement.NewEngine(test.ContractKey.Address(),
		authority.NewSignatureAuthority(test.DB), ledger, settlement.DefaultFees())
	contract := engine.ContractAddress()

	ledger.SetBalance(assetX, sender, tests.Amount(t, "100"))
	ledger.SetBalance(assetY, contract, tests.Amount(t, "100"))

	run := func(function string, args []string,
		fn func(ctx context.Context, req *request) error) {

		req, err := parseRequest(function, args)
		if err != nil {
			t.Fatalf("\t%s\tFailed to parse : %v", tests.Failed, err)
		}

		proof, err := authority.Sign(senderKey, req.scope(contract))
		if err != nil {
			t.Fatalf("\t%s\tFailed to sign : %v", tests.Failed, err)
		}

		// Round trip through the text form given to --proof.
		decoded, err := authority.DecodeProof(proof.String())
		if err != nil {
			t.Fatalf("\t%s\tFailed to decode proof : %v", tests.Failed, err)
		}

		if err := fn(authority.ContextWithProofs(ctx, decoded), req); err != nil {
			t.Fatalf("\t%s\t%s rejected : %v", tests.Failed, function, err)
		}
		t.Logf("\t%s\t%s authorized", tests.Success, function)
	}

	run(settlement.FunctionSend, []string{receiver.String(), "X", "10"},
		func(ctx context.Context, req *request) error {
			return engine.Send(ctx, sender, req.receiver, req.sendAsset, req.amount)
		})

	run(settlement.FunctionExchange, []string{receiver.String(), "X", "Y", "10"},
		func(ctx context.Context, req *request) error {
			return engine.Exchange(ctx, sender, req.receiver, req.sendAsset, req.receiveAsset,
				req.amount)
		})

	run(settlement.FunctionSwap, []string{receiver.String(), "X", "Y", "10"},
		func(ctx context.Context, req *request) error {
			return engine.Swap(ctx, sender, req.receiver, req.sendAsset, req.receiveAsset,
				req.amount)
		})

	run(settlement.FunctionLoad, []string{"X", "10"},
		func(ctx context.Context, req *request) error {
			return engine.LoadTokensIntoContract(ctx, req.sendAsset, sender, req.amount)
		})

	if got, err := engine.ReadBalance(ctx, assetX, sender); err != nil ||
		!got.Equal(tests.Amount(t, "60")) {
		t.Fatalf("\t%s\tSender balance : got %s (%v), want 60", tests.Failed, got, err)
	}
	t.Logf("\t%s\tAll operations settled", tests.Success)
}
