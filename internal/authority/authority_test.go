package authority

import (
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

func TestSignatureAuthority(t *testing.T) {
	defer tests.Recover(t)

	ctx := test.Context
	contract := test.ContractKey.Address()
	key := tests.GenerateKey(t)
	other := tests.GenerateKey(t)
	receiver := tests.GenerateKey(t).Address()
	asset := protocol.AssetCodeForName("X")
	amount := tests.Amount(t, "200")

	scope := protocol.NewAuthScope(contract, "send", receiver, asset, amount)

	proof, err := Sign(key, scope)
	if err != nil {
		t.Fatalf("\t%s\tFailed to sign scope : %v", tests.Failed, err)
	}
	t.Logf("\t%s\tSigned scope %s", tests.Success, scope)

	authority := NewSignatureAuthority(test.DB)

	if err := authority.RequireAuth(ctx, key.Address(), scope); errors.Cause(err) != ErrUnauthorized {
		t.Fatalf("\t%s\tCall without proof: got %v, want %v", tests.Failed, err, ErrUnauthorized)
	}
	t.Logf("\t%s\tRejected call without proof", tests.Success)

	proofCtx := ContextWithProofs(ctx, proof)

	otherScope := protocol.NewAuthScope(contract, "send", receiver, asset, tests.Amount(t, "201"))
	if err := authority.RequireAuth(proofCtx, key.Address(), otherScope); errors.Cause(err) != ErrUnauthorized {
		t.Fatalf("\t%s\tDifferent amount: got %v, want %v", tests.Failed, err, ErrUnauthorized)
	}
	t.Logf("\t%s\tRejected proof for different amount", tests.Success)

	if err := authority.RequireAuth(proofCtx, other.Address(), scope); errors.Cause(err) != ErrUnauthorized {
		t.Fatalf("\t%s\tDifferent account: got %v, want %v", tests.Failed, err, ErrUnauthorized)
	}
	t.Logf("\t%s\tRejected proof for different account", tests.Success)

	if err := authority.RequireAuth(proofCtx, key.Address(), scope); err != nil {
		t.Fatalf("\t%s\tValid proof rejected : %v", tests.Failed, err)
	}
	t.Logf("\t%s\tAccepted valid proof", tests.Success)

	if err := authority.RequireAuth(proofCtx, key.Address(), scope); errors.Cause(err) != ErrUnauthorized {
		t.Fatalf("\t%s\tReplayed proof: got %v, want %v", tests.Failed, err, ErrUnauthorized)
	}
	t.Logf("\t%s\tRejected replayed proof", tests.Success)

	// A new authority on the same storage still knows the nonce.
	restarted := NewSignatureAuthority(test.DB)
	if err := restarted.RequireAuth(proofCtx, key.Address(), scope); errors.Cause(err) != ErrUnauthorized {
		t.Fatalf("\t%s\tReplay after restart: got %v, want %v", tests.Failed, err, ErrUnauthorized)
	}
	t.Logf("\t%s\tRejected replayed proof after restart", tests.Success)
}

func TestProofEncoding(t *testing.T) {
	key := tests.GenerateKey(t)
	var contract bitcoin.RawAddress
	scope := protocol.NewAuthScope(contract, "load_tokens_into_contract",
		protocol.AssetCodeForName("Y"), tests.Amount(t, "1000"))

	proof, err := Sign(key, scope)
	if err != nil {
		t.Fatalf("\t%s\tFailed to sign scope : %v", tests.Failed, err)
	}

	decoded, err := DecodeProof(proof.String())
	if err != nil {
		t.Fatalf("\t%s\tFailed to decode proof : %v", tests.Failed, err)
	}

	if decoded.Nonce != proof.Nonce {
		t.Errorf("\t%s\tNonce: got %s, want %s", tests.Failed, decoded.Nonce, proof.Nonce)
	}
	if !decoded.Verify(scope) {
		t.Fatalf("\t%s\tDecoded proof does not verify", tests.Failed)
	}
	t.Logf("\t%s\tDecoded proof verifies", tests.Success)

	if _, err := DecodeProof("00"); err == nil {
		t.Errorf("\t%s\tDecoded truncated proof", tests.Failed)
	}
}

func TestContextProofs(t *testing.T) {
	ctx := test.Context
	if len(ProofsFromContext(ctx)) != 0 {
		t.Fatalf("\t%s\tProofs in empty context", tests.Failed)
	}

	ctx = ContextWithProofs(ctx, &Proof{})
	ctx = ContextWithProofs(ctx, &Proof{}, &Proof{})
	if got := len(ProofsFromContext(ctx)); got != 3 {
		t.Errorf("\t%s\tProof count: got %d, want 3", tests.Failed, got)
	}
}
