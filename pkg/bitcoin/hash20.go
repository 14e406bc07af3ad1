package bitcoin

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/ripemd160"
)

const Hash20Size = 20

type Hash20 [Hash20Size]byte

func NewHash20(b []byte) (*Hash20, error) {
	if len(b) != Hash20Size {
		return nil, ErrBadLength
	}
	result := Hash20{}
	copy(result[:], b)
	return &result, nil
}

// Hash160 returns RIPEMD160(SHA256(b)), the hash used for public key addresses.
func Hash160(b []byte) []byte {
	s := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(s[:])
	return h.Sum(nil)
}

// DoubleSha256 returns SHA256(SHA256(b)).
func DoubleSha256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Bytes returns the data for the hash.
func (h Hash20) Bytes() []byte {
	return h[:]
}

// Equal returns true if the parameter has the same value.
func (h Hash20) Equal(o Hash20) bool {
	return bytes.Equal(h[:], o[:])
}

func (h Hash20) String() string {
	return hex.EncodeToString(h[:])
}

// MarshalJSON converts to json.
func (h Hash20) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%x\"", h[:])), nil
}

// UnmarshalJSON converts from json.
func (h *Hash20) UnmarshalJSON(data []byte) error {
	if len(data) != (Hash20Size*2)+2 {
		return fmt.Errorf("Wrong size hex data for Hash20 : %d", len(data)-2)
	}

	_, err := hex.Decode(h[:], data[1:len(data)-1])
	return err
}
