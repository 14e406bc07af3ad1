package settlement

import (
	"context"

	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"
)

// Ledger holds the balances of every asset the engine settles.
type Ledger interface {
	Balance(ctx context.Context, asset protocol.AssetCode,
		account bitcoin.RawAddress) (protocol.Amount, error)

	// Transfer must fail, without moving anything, when from holds less than amount.
	Transfer(ctx context.Context, asset protocol.AssetCode, from, to bitcoin.RawAddress,
		amount protocol.Amount) error
}

// Executor runs an operation as one unit. Either every transfer made inside fn is applied or,
//   when fn returns an error, none are. Nonces consumed by the Authorizer are only released on
//   rollback when the executor runs the db.OnUndo actions registered on fn's context, as
//   holdings.Ledger does. DirectExecutor does not, so a failed operation still spends its proof.
type Executor interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// DirectExecutor calls fn without any rollback. A ledger failure on the second transfer of an
//   exchange or swap leaves the first one applied.
var DirectExecutor = ExecutorFunc(func(ctx context.Context,
	fn func(ctx context.Context) error) error {
	return fn(ctx)
})

// token is the ledger as seen for a single asset.
type token struct {
	ledger Ledger
	asset  protocol.AssetCode
}

func (e *Engine) token(asset protocol.AssetCode) token {
	return token{ledger: e.ledger, asset: asset}
}

func (t token) balanceOf(ctx context.Context, account bitcoin.RawAddress) (protocol.Amount, error) {
	return t.ledger.Balance(ctx, t.asset, account)
}

// transfer reports any ledger failure as ErrTransfer. Failed transfers are never retried.
func (t token) transfer(ctx context.Context, from, to bitcoin.RawAddress,
	amount protocol.Amount) error {

	if err := t.ledger.Transfer(ctx, t.asset, from, to, amount); err != nil {
		return reject(ErrTransfer, "%s %s from %s to %s : %s", amount, t.asset, from, to, err)
	}
	return nil
}
