package bitcoin

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

const (
	typePrivKey = 0x80 // Private Key

	keySize = 32
)

// Key is a secp256k1 private key that controls an account.
type Key struct {
	key *btcec.PrivateKey
}

// GenerateKey randomly generates a new key.
func GenerateKey() (Key, error) {
	privkey, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return Key{}, errors.Wrap(err, "generate private key")
	}
	return Key{key: privkey}, nil
}

// KeyFromBytes creates a key from a set of bytes that represents a 256 bit big-endian integer.
func KeyFromBytes(b []byte) (Key, error) {
	if len(b) != keySize {
		return Key{}, ErrBadLength
	}
	privkey, _ := btcec.PrivKeyFromBytes(btcec.S256(), b)
	return Key{key: privkey}, nil
}

// DecodeKeyString converts key text to a key.
func DecodeKeyString(s string) (Key, error) {
	version, b, err := decodeCheck(s)
	if err != nil {
		return Key{}, err
	}

	if version != typePrivKey {
		return Key{}, ErrBadType
	}

	return KeyFromBytes(b)
}

// String returns the key data with a checksum, encoded with Base58.
func (k Key) String() string {
	return encodeCheck(typePrivKey, k.Bytes())
}

// Bytes returns the 32 bytes of the 256 bit big-endian integer of the private key.
func (k Key) Bytes() []byte {
	return k.key.Serialize()
}

// IsEmpty returns true if the key has not been set.
func (k Key) IsEmpty() bool {
	return k.key == nil
}

// PublicKey returns the public key.
func (k Key) PublicKey() PublicKey {
	return PublicKey{key: k.key.PubKey()}
}

// Address returns the address controlled by the key.
func (k Key) Address() RawAddress {
	return RawAddressFromPublicKey(k.PublicKey())
}

// Sign creates a signature from a hash.
func (k Key) Sign(hash []byte) (Signature, error) {
	sig, err := k.key.Sign(hash)
	if err != nil {
		return Signature{}, errors.Wrap(err, "sign")
	}
	return Signature{sig: sig}, nil
}
