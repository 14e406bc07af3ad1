package bitcoin

import (
	"io"
)

const (
	typeAddressPKH = 0x00 // Public Key Hash
)

// RawAddress identifies an account. It is the hash of the account's compressed public key, so it
//   can be compared, used as a map key, and checked against a signing key.
type RawAddress Hash20

// RawAddressFromPublicKey returns the address controlled by a public key.
func RawAddressFromPublicKey(pk PublicKey) RawAddress {
	var result RawAddress
	copy(result[:], Hash160(pk.Bytes()))
	return result
}

// NewRawAddress creates an address from a 20 byte public key hash.
func NewRawAddress(b []byte) (RawAddress, error) {
	var result RawAddress
	if len(b) != Hash20Size {
		return result, ErrBadLength
	}
	copy(result[:], b)
	return result, nil
}

// DecodeAddress decodes the text form of an address.
func DecodeAddress(s string) (RawAddress, error) {
	var result RawAddress

	version, b, err := decodeCheck(s)
	if err != nil {
		return result, err
	}

	if version != typeAddressPKH {
		return result, ErrBadType
	}

	return NewRawAddress(b)
}

// Bytes returns the public key hash.
func (a RawAddress) Bytes() []byte {
	return a[:]
}

// String returns the address encoded with Base58 and a checksum.
func (a RawAddress) String() string {
	return encodeCheck(typeAddressPKH, a[:])
}

// Equal returns true if the address parameter has the same value.
func (a RawAddress) Equal(o RawAddress) bool {
	return Hash20(a).Equal(Hash20(o))
}

// IsEmpty returns true if the address has not been set.
func (a RawAddress) IsEmpty() bool {
	return a == RawAddress{}
}

// Serialize writes the address into a writer.
func (a RawAddress) Serialize(w io.Writer) error {
	_, err := w.Write(a[:])
	return err
}

// Deserialize reads the address from a reader.
func (a *RawAddress) Deserialize(r io.Reader) error {
	_, err := io.ReadFull(r, a[:])
	return err
}

// MarshalText returns the text encoding of the address.
func (a RawAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a text encoded address.
func (a *RawAddress) UnmarshalText(text []byte) error {
	decoded, err := DecodeAddress(string(text))
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}
