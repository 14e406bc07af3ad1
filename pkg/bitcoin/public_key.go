package bitcoin

import (
	"io"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

const (
	typePublicKey = 0x02

	PublicKeyCompressedLength = 33
)

// PublicKey is a secp256k1 public key.
type PublicKey struct {
	key *btcec.PublicKey
}

// DecodePublicKeyString converts key text to a key.
func DecodePublicKeyString(s string) (PublicKey, error) {
	version, b, err := decodeCheck(s)
	if err != nil {
		return PublicKey{}, err
	}

	if version != typePublicKey {
		return PublicKey{}, ErrBadType
	}

	return DecodePublicKeyBytes(b)
}

// DecodePublicKeyBytes decodes a serialized compressed public key.
func DecodePublicKeyBytes(b []byte) (PublicKey, error) {
	pubkey, err := btcec.ParsePubKey(b, btcec.S256())
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "parse public key")
	}
	return PublicKey{key: pubkey}, nil
}

// String returns the key data with a checksum, encoded with Base58.
func (k PublicKey) String() string {
	return encodeCheck(typePublicKey, k.Bytes())
}

// Bytes returns serialized compressed key data.
func (k PublicKey) Bytes() []byte {
	if k.key == nil {
		return nil
	}
	return k.key.SerializeCompressed()
}

// IsEmpty returns true if the key has not been set.
func (k PublicKey) IsEmpty() bool {
	return k.key == nil
}

// Address returns the address controlled by the key.
func (k PublicKey) Address() RawAddress {
	return RawAddressFromPublicKey(k)
}

// Serialize writes the compressed key into a writer.
func (k PublicKey) Serialize(w io.Writer) error {
	_, err := w.Write(k.Bytes())
	return err
}

// Deserialize reads a compressed key from a reader.
func (k *PublicKey) Deserialize(r io.Reader) error {
	b := make([]byte, PublicKeyCompressedLength)
	if _, err := io.ReadFull(r, b); err != nil {
		return err
	}

	decoded, err := DecodePublicKeyBytes(b)
	if err != nil {
		return err
	}
	*k = decoded
	return nil
}
