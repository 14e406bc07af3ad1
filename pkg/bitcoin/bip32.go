package bitcoin

import (
	"github.com/pkg/errors"
	bip32 "github.com/tyler-smith/go-bip32"
)

// BIP32Key is a hierarchical deterministic key. Accounts for one operator are derived from a
//   single seed key.
type BIP32Key struct {
	key *bip32.Key
}

// GenerateBIP32Key creates a new master key from a random seed.
func GenerateBIP32Key() (*BIP32Key, error) {
	seed, err := bip32.NewSeed()
	if err != nil {
		return nil, errors.Wrap(err, "new seed")
	}

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "master key")
	}

	return &BIP32Key{key: key}, nil
}

// BIP32KeyFromStr creates a key from a string.
func BIP32KeyFromStr(s string) (*BIP32Key, error) {
	key, err := bip32.B58Deserialize(s)
	if err != nil {
		return nil, err
	}
	return &BIP32Key{key: key}, nil
}

// String returns the key formatted as text.
func (k *BIP32Key) String() string {
	return k.key.B58Serialize()
}

// ChildKey derives the child key at index.
func (k *BIP32Key) ChildKey(index uint32) (*BIP32Key, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, errors.Wrapf(err, "child %d", index)
	}
	return &BIP32Key{key: child}, nil
}

// Key returns the signing key. Only private extended keys can sign.
func (k *BIP32Key) Key() (Key, error) {
	if !k.key.IsPrivate {
		return Key{}, errors.New("Not a private key")
	}

	// Derived keys can be shorter than 32 bytes when the integer has leading zeros.
	b := k.key.Key
	if len(b) < keySize {
		padded := make([]byte, keySize)
		copy(padded[keySize-len(b):], b)
		b = padded
	}
	return KeyFromBytes(b)
}
