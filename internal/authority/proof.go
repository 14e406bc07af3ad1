package authority

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type key int

// keyProofs is the key for the authorization proofs in the Context.
const keyProofs key = 0

// Proof is a signature by an account key over one authorization scope. The nonce makes each
//   proof single use.
type Proof struct {
	PublicKey bitcoin.PublicKey
	Nonce     uuid.UUID
	Signature bitcoin.Signature
}

// Sign creates a proof that the key's account approves scope.
func Sign(key bitcoin.Key, scope protocol.AuthScope) (*Proof, error) {
	digest, err := scope.Digest()
	if err != nil {
		return nil, errors.Wrap(err, "scope digest")
	}

	nonce, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}

	sig, err := key.Sign(signatureHash(digest, nonce))
	if err != nil {
		return nil, err
	}

	return &Proof{
		PublicKey: key.PublicKey(),
		Nonce:     nonce,
		Signature: sig,
	}, nil
}

// Verify returns true if the proof signs scope.
func (p *Proof) Verify(scope protocol.AuthScope) bool {
	digest, err := scope.Digest()
	if err != nil {
		return false
	}
	return p.verifyDigest(digest)
}

func (p *Proof) verifyDigest(digest []byte) bool {
	return p.Signature.Verify(signatureHash(digest, p.Nonce), p.PublicKey)
}

func signatureHash(digest []byte, nonce uuid.UUID) []byte {
	h := sha256.New()
	h.Write(digest)
	h.Write(nonce[:])
	return h.Sum(nil)
}

// Bytes returns the serialized proof.
func (p *Proof) Bytes() []byte {
	var buf bytes.Buffer
	p.PublicKey.Serialize(&buf)
	buf.Write(p.Nonce[:])
	buf.Write(p.Signature.Bytes())
	return buf.Bytes()
}

// String returns the serialized proof as hex.
func (p *Proof) String() string {
	return hex.EncodeToString(p.Bytes())
}

// DecodeProof parses a proof from the hex text returned by String.
func DecodeProof(s string) (*Proof, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode hex")
	}

	r := bytes.NewReader(b)
	result := &Proof{}

	if err := result.PublicKey.Deserialize(r); err != nil {
		return nil, errors.Wrap(err, "public key")
	}

	if _, err := io.ReadFull(r, result.Nonce[:]); err != nil {
		return nil, errors.Wrap(err, "nonce")
	}

	sig := make([]byte, r.Len())
	if _, err := r.Read(sig); err != nil {
		return nil, errors.Wrap(err, "signature")
	}

	result.Signature, err = bitcoin.DecodeSignatureBytes(sig)
	if err != nil {
		return nil, errors.Wrap(err, "signature")
	}

	return result, nil
}

// ContextWithProofs returns a Context carrying authorization proofs for the call being made,
//   in addition to any already attached.
func ContextWithProofs(ctx context.Context, proofs ...*Proof) context.Context {
	existing := ProofsFromContext(ctx)

	all := make([]*Proof, 0, len(existing)+len(proofs))
	all = append(all, existing...)
	all = append(all, proofs...)

	return context.WithValue(ctx, keyProofs, all)
}

// ProofsFromContext returns the proofs attached to the Context.
func ProofsFromContext(ctx context.Context) []*Proof {
	v := ctx.Value(keyProofs)
	if v == nil {
		return nil
	}
	return v.([]*Proof)
}
