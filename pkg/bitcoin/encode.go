package bitcoin

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
)

var (
	ErrBadType     = errors.New("Unknown type byte")
	ErrBadCheckSum = errors.New("Checksum invalid")
	ErrBadLength   = errors.New("Data has invalid length")
)

// encodeCheck returns the Base58 encoding of the version byte and data followed by a four byte
//   checksum.
func encodeCheck(version byte, b []byte) string {
	return base58.CheckEncode(b, version)
}

// decodeCheck decodes Base58 checksummed text. It returns the version byte and the data.
func decodeCheck(s string) (byte, []byte, error) {
	b, version, err := base58.CheckDecode(s)
	if err != nil {
		if err == base58.ErrChecksum {
			return 0, nil, ErrBadCheckSum
		}
		return 0, nil, err
	}

	return version, b, nil
}

// Base58 return the Base58 encoding of the input.
//
// See https://en.wikipedia.org/wiki/Base58
func Base58(b []byte) string {
	return base58.Encode(b)
}

// Base58Decode returns base 58 decodes the argument and returns the result.
func Base58Decode(s string) []byte {
	return base58.Decode(s)
}
