package bitcoin

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

const typeSignature = 0x03

// Signature is an elliptic curve signature using the secp256k1 elliptic curve.
type Signature struct {
	sig *btcec.Signature
}

// DecodeSignatureString converts signature text to a signature.
func DecodeSignatureString(s string) (Signature, error) {
	version, b, err := decodeCheck(s)
	if err != nil {
		return Signature{}, err
	}

	if version != typeSignature {
		return Signature{}, ErrBadType
	}

	return DecodeSignatureBytes(b)
}

// DecodeSignatureBytes decodes a DER serialized signature.
func DecodeSignatureBytes(b []byte) (Signature, error) {
	sig, err := btcec.ParseSignature(b, btcec.S256())
	if err != nil {
		return Signature{}, errors.Wrap(err, "parse signature")
	}
	return Signature{sig: sig}, nil
}

// String returns the serialized signature with a checksum, encoded with Base58.
func (s Signature) String() string {
	return encodeCheck(typeSignature, s.Bytes())
}

// Bytes returns the DER serialized signature.
func (s Signature) Bytes() []byte {
	if s.sig == nil {
		return nil
	}
	return s.sig.Serialize()
}

// Verify returns true if the signature is valid for this public key and hash.
func (s Signature) Verify(hash []byte, pubkey PublicKey) bool {
	if s.sig == nil || pubkey.key == nil {
		return false
	}
	return s.sig.Verify(hash, pubkey.key)
}
