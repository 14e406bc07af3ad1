package protocol

import (
	"bytes"
	"testing"

	"github.com/tokenized/settlement/pkg/bitcoin"
)

func TestAuthScopeDigest(t *testing.T) {
	var contract, receiver bitcoin.RawAddress
	contract[0] = 1
	receiver[0] = 2

	x := AssetCodeForName("X")
	y := AssetCodeForName("Y")

	base := NewAuthScope(contract, "exchange", receiver, x, y, NewAmount(500000000))

	digest, err := base.Digest()
	if err != nil {
		t.Fatalf("Failed to digest scope : %s", err)
	}

	same := NewAuthScope(contract, "exchange", receiver, x, y, NewAmount(500000000))
	sameDigest, err := same.Digest()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(digest, sameDigest) {
		t.Errorf("Equal scopes produced different digests")
	}

	variants := map[string]AuthScope{
		"function": NewAuthScope(contract, "swap", receiver, x, y, NewAmount(500000000)),
		"contract": NewAuthScope(receiver, "exchange", receiver, x, y, NewAmount(500000000)),
		"receiver": NewAuthScope(contract, "exchange", contract, x, y, NewAmount(500000000)),
		"assets":   NewAuthScope(contract, "exchange", receiver, y, x, NewAmount(500000000)),
		"amount":   NewAuthScope(contract, "exchange", receiver, x, y, NewAmount(500000001)),
		"args":     NewAuthScope(contract, "exchange", receiver, x, NewAmount(500000000)),
	}

	for name, scope := range variants {
		d, err := scope.Digest()
		if err != nil {
			t.Fatalf("Failed to digest %s scope : %s", name, err)
		}
		if bytes.Equal(d, digest) {
			t.Errorf("Changing %s did not change digest", name)
		}
	}

	if _, err := NewAuthScope(contract, "send", "text").Digest(); err == nil {
		t.Errorf("Unsupported argument accepted")
	}
}
