package authority

import (
	"context"
	"fmt"
	"sync"

	"github.com/tokenized/settlement/internal/platform/db"
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
	"go.opencensus.io/trace"
)

const (
	SubSystem = "Authority" // For logger

	storageKey = "authority"
)

var (
	// ErrUnauthorized is returned when no valid proof covers the account and scope.
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrNonceUsed is returned when a proof is presented a second time.
	ErrNonceUsed = errors.New("Authorization nonce already used")
)

// Authorizer proves that an account approved a call with exactly the parameters in scope.
type Authorizer interface {
	RequireAuth(ctx context.Context, account bitcoin.RawAddress, scope protocol.AuthScope) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, account bitcoin.RawAddress,
	scope protocol.AuthScope) error

// RequireAuth calls f.
func (f AuthorizerFunc) RequireAuth(ctx context.Context, account bitcoin.RawAddress,
	scope protocol.AuthScope) error {
	return f(ctx, account, scope)
}

var (
	// AllowAll authorizes every call.
	AllowAll = AuthorizerFunc(func(ctx context.Context, account bitcoin.RawAddress,
		scope protocol.AuthScope) error {
		return nil
	})

	// DenyAll rejects every call.
	DenyAll = AuthorizerFunc(func(ctx context.Context, account bitcoin.RawAddress,
		scope protocol.AuthScope) error {
		return ErrUnauthorized
	})
)

// SignatureAuthority verifies signed proofs attached to the context. Each proof nonce is
//   accepted once per account. Used nonces are kept in storage so they survive restarts.
type SignatureAuthority struct {
	dbConn *db.DB
	lock   sync.Mutex
}

// NewSignatureAuthority returns an authority that records used nonces in dbConn.
func NewSignatureAuthority(dbConn *db.DB) *SignatureAuthority {
	return &SignatureAuthority{dbConn: dbConn}
}

// RequireAuth returns nil when a proof in the context was signed by the key controlling account
//   over scope, and its nonce has not been used before.
func (a *SignatureAuthority) RequireAuth(ctx context.Context, account bitcoin.RawAddress,
	scope protocol.AuthScope) error {

	ctx, span := trace.StartSpan(ctx, "authority.SignatureAuthority.RequireAuth")
	defer span.End()

	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	digest, err := scope.Digest()
	if err != nil {
		return errors.Wrap(err, "scope digest")
	}

	proofs := ProofsFromContext(ctx)
	for _, proof := range proofs {
		if !proof.PublicKey.Address().Equal(account) {
			continue
		}

		if !proof.verifyDigest(digest) {
			logger.Verbose(ctx, "Proof signature does not match scope %s for %s", scope, account)
			continue
		}

		if err := a.useNonce(ctx, account, proof); err != nil {
			if errors.Cause(err) == ErrNonceUsed {
				logger.Warn(ctx, "Replayed authorization for %s : nonce %s", account, proof.Nonce)
				return errors.Wrap(ErrUnauthorized, err.Error())
			}
			return errors.Wrap(err, "use nonce")
		}

		return nil
	}

	logger.Warn(ctx, "No authorization for %s on %s (%d proofs)", account, scope, len(proofs))
	return ErrUnauthorized
}

func (a *SignatureAuthority) useNonce(ctx context.Context, account bitcoin.RawAddress,
	proof *Proof) error {

	a.lock.Lock()
	defer a.lock.Unlock()

	key := nonceStoragePath(account, proof)

	_, err := a.dbConn.Fetch(ctx, key)
	if err == nil {
		return ErrNonceUsed
	}
	if err != db.ErrNotFound {
		return errors.Wrap(err, "fetch nonce")
	}

	if err := a.dbConn.Put(ctx, key, proof.Signature.Bytes()); err != nil {
		return errors.Wrap(err, "put nonce")
	}

	// Release the nonce if the operation that consumed it is rolled back.
	db.OnUndo(ctx, func(ctx context.Context) error {
		a.lock.Lock()
		defer a.lock.Unlock()
		return a.dbConn.Remove(ctx, key)
	})

	return nil
}

func nonceStoragePath(account bitcoin.RawAddress, proof *Proof) string {
	return fmt.Sprintf("%s/%x/nonces/%s", storageKey, account.Bytes(), proof.Nonce)
}
