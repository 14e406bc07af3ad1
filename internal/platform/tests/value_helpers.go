package tests

import (
	"testing"

	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"
)

// Amount parses decimal text and fails the test on error.
func Amount(t testing.TB, text string) protocol.Amount {
	result, err := protocol.ParseAmount(text)
	if err != nil {
		t.Fatalf("\t%s\tInvalid amount %s : %v", Failed, text, err)
	}
	return result
}

// GenerateKey returns a new key and fails the test on error.
func GenerateKey(t testing.TB) bitcoin.Key {
	key, err := bitcoin.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tFailed to generate key : %v", Failed, err)
	}
	return key
}
