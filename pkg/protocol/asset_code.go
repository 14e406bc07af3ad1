package protocol

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

const AssetCodeSize = 32

// AssetCode is an opaque reference to a fungible asset tracked by a ledger.
type AssetCode [AssetCodeSize]byte

// AssetCodeFromBytes creates an asset code from 32 bytes.
func AssetCodeFromBytes(b []byte) (AssetCode, error) {
	var result AssetCode
	if len(b) != AssetCodeSize {
		return result, errors.Errorf("Wrong asset code length : %d", len(b))
	}
	copy(result[:], b)
	return result, nil
}

// AssetCodeFromString decodes the hex text form of an asset code.
func AssetCodeFromString(s string) (AssetCode, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return AssetCode{}, errors.Wrap(err, "decode hex")
	}
	return AssetCodeFromBytes(b)
}

// AssetCodeForName returns the asset code derived from a human readable name.
func AssetCodeForName(name string) AssetCode {
	return AssetCode(sha256.Sum256([]byte(name)))
}

// Bytes returns the asset code data.
func (c AssetCode) Bytes() []byte {
	return c[:]
}

// String returns the asset code as hex text.
func (c AssetCode) String() string {
	return hex.EncodeToString(c[:])
}

// Equal returns true if the parameter has the same value.
func (c AssetCode) Equal(o AssetCode) bool {
	return c == o
}

// IsZero returns true if the asset code has not been set.
func (c AssetCode) IsZero() bool {
	return c == AssetCode{}
}

// Serialize writes the asset code into a writer.
func (c AssetCode) Serialize(w io.Writer) error {
	_, err := w.Write(c[:])
	return err
}

// Deserialize reads the asset code from a reader.
func (c *AssetCode) Deserialize(r io.Reader) error {
	_, err := io.ReadFull(r, c[:])
	return err
}

// MarshalText returns the hex text of the asset code.
func (c AssetCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses hex text.
func (c *AssetCode) UnmarshalText(text []byte) error {
	decoded, err := AssetCodeFromString(string(text))
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}
