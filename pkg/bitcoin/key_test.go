package bitcoin

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestKey(t *testing.T) {
	pk := "619c335025c7f4012e556c2a58b2506e30b8511b53ade95ea316fd8c3286feb9"

	data, err := hex.DecodeString(pk)
	if err != nil {
		t.Fatal(err)
	}

	key, err := KeyFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}

	reverseKey, err := DecodeKeyString(key.String())
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(reverseKey.Bytes(), key.Bytes()) {
		t.Errorf("Key decode: got %x, want %x", reverseKey.Bytes(), key.Bytes())
	}

	if _, err := KeyFromBytes(data[1:]); err != ErrBadLength {
		t.Errorf("Short key: got %v, want %v", err, ErrBadLength)
	}
}

func TestAddress(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	address := key.Address()
	if !address.Equal(key.PublicKey().Address()) {
		t.Errorf("Key and public key addresses differ")
	}

	decoded, err := DecodeAddress(address.String())
	if err != nil {
		t.Fatalf("Failed to decode address : %s", err)
	}

	if decoded != address {
		t.Errorf("Address decode: got %s, want %s", decoded, address)
	}

	text := address.String()
	broken := []byte(text)
	if broken[3] == 'a' {
		broken[3] = 'b'
	} else {
		broken[3] = 'a'
	}
	if _, err := DecodeAddress(string(broken)); err == nil {
		t.Errorf("Corrupted address decoded")
	}

	if _, err := DecodeAddress(key.String()); err == nil {
		t.Errorf("Key text decoded as address")
	}
}

func TestSignature(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	other, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	hash := sha256.Sum256([]byte("settle"))
	sig, err := key.Sign(hash[:])
	if err != nil {
		t.Fatal(err)
	}

	if !sig.Verify(hash[:], key.PublicKey()) {
		t.Errorf("Signature failed to verify")
	}

	if sig.Verify(hash[:], other.PublicKey()) {
		t.Errorf("Signature verified with wrong key")
	}

	wrongHash := sha256.Sum256([]byte("settled"))
	if sig.Verify(wrongHash[:], key.PublicKey()) {
		t.Errorf("Signature verified with wrong hash")
	}

	decoded, err := DecodeSignatureString(sig.String())
	if err != nil {
		t.Fatalf("Failed to decode signature : %s", err)
	}

	if !decoded.Verify(hash[:], key.PublicKey()) {
		t.Errorf("Decoded signature failed to verify")
	}

	pubkey, err := DecodePublicKeyString(key.PublicKey().String())
	if err != nil {
		t.Fatalf("Failed to decode public key : %s", err)
	}

	if !bytes.Equal(pubkey.Bytes(), key.PublicKey().Bytes()) {
		t.Errorf("Public key decode: got %x, want %x", pubkey.Bytes(), key.PublicKey().Bytes())
	}
}

func TestBIP32(t *testing.T) {
	master, err := GenerateBIP32Key()
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := BIP32KeyFromStr(master.String())
	if err != nil {
		t.Fatalf("Failed to decode bip32 key : %s", err)
	}

	first, err := decoded.ChildKey(0)
	if err != nil {
		t.Fatal(err)
	}
	again, err := master.ChildKey(0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := master.ChildKey(1)
	if err != nil {
		t.Fatal(err)
	}

	firstKey, err := first.Key()
	if err != nil {
		t.Fatal(err)
	}
	againKey, err := again.Key()
	if err != nil {
		t.Fatal(err)
	}
	secondKey, err := second.Key()
	if err != nil {
		t.Fatal(err)
	}

	if firstKey.Address() != againKey.Address() {
		t.Errorf("Derivation is not deterministic")
	}
	if firstKey.Address() == secondKey.Address() {
		t.Errorf("Different indexes derived the same account")
	}
}
