package holdings

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/tokenized/settlement/internal/platform/tests"
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
)

var test *tests.Test

func TestMain(m *testing.M) {
	test = tests.New()
	code := m.Run()
	test.Close()
	os.Exit(code)
}

func TestTransfer(t *testing.T) {
	defer tests.Recover(t)

	ctx := test.Context
	ledger := NewLedger(test.DB, test.ContractKey.Address())
	asset := protocol.AssetCodeForName("TST")
	alice := tests.GenerateKey(t).Address()
	bob := tests.GenerateKey(t).Address()

	if err := ledger.Issue(ctx, asset, alice, tests.Amount(t, "100")); err != nil {
		t.Fatalf("\t%s\tFailed to issue : %v", tests.Failed, err)
	}
	t.Logf("\t%s\tIssued 100", tests.Success)

	if err := ledger.Transfer(ctx, asset, alice, bob, tests.Amount(t, "40.5")); err != nil {
		t.Fatalf("\t%s\tFailed to transfer : %v", tests.Failed, err)
	}

	checkBalance(t, ctx, ledger, asset, alice, "59.5")
	checkBalance(t, ctx, ledger, asset, bob, "40.5")

	err := ledger.Transfer(ctx, asset, bob, alice, tests.Amount(t, "40.5000001"))
	if errors.Cause(err) != ErrInsufficientHoldings {
		t.Fatalf("\t%s\tOverdraw: got %v, want %v", tests.Failed, err, ErrInsufficientHoldings)
	}
	checkBalance(t, ctx, ledger, asset, bob, "40.5")
	t.Logf("\t%s\tRejected overdraw", tests.Success)

	err = ledger.Transfer(ctx, asset, alice, bob, tests.Amount(t, "-1"))
	if errors.Cause(err) != ErrInvalidQuantity {
		t.Fatalf("\t%s\tNegative: got %v, want %v", tests.Failed, err, ErrInvalidQuantity)
	}
	t.Logf("\t%s\tRejected negative quantity", tests.Success)

	if err := ledger.Transfer(ctx, asset, alice, alice, tests.Amount(t, "59.5")); err != nil {
		t.Fatalf("\t%s\tFailed self transfer : %v", tests.Failed, err)
	}
	checkBalance(t, ctx, ledger, asset, alice, "59.5")
	t.Logf("\t%s\tSelf transfer left balance unchanged", tests.Success)

	supply, err := ledger.Supply(ctx, asset)
	if err != nil {
		t.Fatalf("\t%s\tFailed to get supply : %v", tests.Failed, err)
	}
	if !supply.Equal(tests.Amount(t, "100")) {
		t.Fatalf("\t%s\tSupply : got %s, want 100", tests.Failed, supply)
	}
	t.Logf("\t%s\tSupply conserved", tests.Success)

	// Reread from storage.
	ledger.Reset(ctx)
	checkBalance(t, ctx, ledger, asset, alice, "59.5")
	checkBalance(t, ctx, ledger, asset, bob, "40.5")

	reopened := NewLedger(test.DB, test.ContractKey.Address())
	checkBalance(t, ctx, reopened, asset, bob, "40.5")
	t.Logf("\t%s\tBalances persisted", tests.Success)
}

func TestUnknownBalance(t *testing.T) {
	defer tests.Recover(t)

	ledger := NewLedger(test.DB, test.ContractKey.Address())
	asset := protocol.AssetCodeForName("NONE")

	checkBalance(t, test.Context, ledger, asset, tests.GenerateKey(t).Address(), "0")

	supply, err := ledger.Supply(test.Context, asset)
	if err != nil {
		t.Fatalf("\t%s\tFailed to get supply : %v", tests.Failed, err)
	}
	if supply.Sign() != 0 {
		t.Fatalf("\t%s\tSupply : got %s, want 0", tests.Failed, supply)
	}
	t.Logf("\t%s\tUnknown holdings are zero", tests.Success)
}

func TestExecuteRollback(t *testing.T) {
	defer tests.Recover(t)

	ctx := test.Context
	ledger := NewLedger(test.DB, test.ContractKey.Address())
	asset := protocol.AssetCodeForName("ROLL")
	other := protocol.AssetCodeForName("ROLL2")
	alice := tests.GenerateKey(t).Address()
	bob := tests.GenerateKey(t).Address()

	if err := ledger.Issue(ctx, asset, alice, tests.Amount(t, "10")); err != nil {
		t.Fatalf("\t%s\tFailed to issue : %v", tests.Failed, err)
	}

	failure := errors.New("Second leg failed")
	err := ledger.Execute(ctx, func(ctx context.Context) error {
		if err := ledger.Transfer(ctx, asset, alice, bob, tests.Amount(t, "4")); err != nil {
			return err
		}
		if err := ledger.Issue(ctx, other, bob, tests.Amount(t, "3")); err != nil {
			return err
		}
		if err := ledger.Transfer(ctx, asset, bob, alice, tests.Amount(t, "1")); err != nil {
			return err
		}
		return failure
	})
	if err != failure {
		t.Fatalf("\t%s\tExecute : got %v, want %v", tests.Failed, err, failure)
	}

	checkBalance(t, ctx, ledger, asset, alice, "10")
	checkBalance(t, ctx, ledger, asset, bob, "0")
	checkBalance(t, ctx, ledger, other, bob, "0")
	t.Logf("\t%s\tFailed execute reverted every change", tests.Success)

	err = ledger.Execute(ctx, func(ctx context.Context) error {
		return ledger.Transfer(ctx, asset, alice, bob, tests.Amount(t, "4"))
	})
	if err != nil {
		t.Fatalf("\t%s\tFailed execute : %v", tests.Failed, err)
	}

	checkBalance(t, ctx, ledger, asset, alice, "6")
	checkBalance(t, ctx, ledger, asset, bob, "4")
	t.Logf("\t%s\tSuccessful execute kept changes", tests.Success)
}

func TestHoldingSerialize(t *testing.T) {
	defer tests.Recover(t)

	h := &Holding{
		Address:   tests.GenerateKey(t).Address(),
		Balance:   tests.Amount(t, "-12.3456789"),
		CreatedAt: 1000,
		UpdatedAt: 2000,
	}

	b, err := serializeHolding(h)
	if err != nil {
		t.Fatalf("\t%s\tFailed to serialize : %v", tests.Failed, err)
	}

	read, err := deserializeHolding(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("\t%s\tFailed to deserialize : %v", tests.Failed, err)
	}

	if !read.Address.Equal(h.Address) || !read.Balance.Equal(h.Balance) ||
		read.CreatedAt != h.CreatedAt || read.UpdatedAt != h.UpdatedAt {
		t.Fatalf("\t%s\tHolding mismatch : got %+v, want %+v", tests.Failed, read, h)
	}
	t.Logf("\t%s\tHolding serialized", tests.Success)
}

func checkBalance(t *testing.T, ctx context.Context, ledger *Ledger, asset protocol.AssetCode,
	address bitcoin.RawAddress, want string) {
	t.Helper()

	balance, err := ledger.Balance(ctx, asset, address)
	if err != nil {
		t.Fatalf("\t%s\tFailed to get balance : %v", tests.Failed, err)
	}

	if !balance.Equal(tests.Amount(t, want)) {
		t.Fatalf("\t%s\tBalance of %s : got %s, want %s", tests.Failed, address, balance, want)
	}
}
