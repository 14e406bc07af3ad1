package settlement

import (
	"context"
	"time"

	"github.com/tokenized/settlement/internal/authority"
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
	"go.opencensus.io/trace"
)

const (
	SubSystem = "Settlement" // For logger

	FunctionSend     = "send"
	FunctionExchange = "exchange"
	FunctionSwap     = "swap"
	FunctionLoad     = "load_tokens_into_contract"
)

// Fees are the flat fees, in asset units, kept by the contract from each exchange and swap
//   payout.
type Fees struct {
	Exchange protocol.Amount
	Swap     protocol.Amount
}

// DefaultFees returns an exchange fee of 0.1 and a swap fee of 0.01.
func DefaultFees() Fees {
	return Fees{
		Exchange: protocol.NewAmount(1000000),
		Swap:     protocol.NewAmount(100000),
	}
}

// For returns the fee charged by an operation.
func (f Fees) For(operation string) (protocol.Amount, error) {
	switch operation {
	case FunctionExchange:
		return f.Exchange, nil
	case FunctionSwap:
		return f.Swap, nil
	}
	return protocol.Amount{}, errors.Wrap(ErrUnknownOperation, operation)
}

// Engine settles transfers of assets between accounts. It keeps no state of its own. Balances
//   live in the ledger and the engine's reserves are the ledger balances of its own address.
type Engine struct {
	address    bitcoin.RawAddress
	authorizer authority.Authorizer
	ledger     Ledger
	fees       Fees
	executor   Executor
	metrics    *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutor runs every mutating operation through executor.
func WithExecutor(executor Executor) Option {
	return func(e *Engine) {
		e.executor = executor
	}
}

// WithMetrics records operation counts and durations.
func WithMetrics(metrics *Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// NewEngine returns an engine custodying funds at address.
func NewEngine(address bitcoin.RawAddress, authorizer authority.Authorizer, ledger Ledger,
	fees Fees, opts ...Option) *Engine {

	result := &Engine{
		address:    address,
		authorizer: authorizer,
		ledger:     ledger,
		fees:       fees,
		executor:   DirectExecutor,
	}

	for _, opt := range opts {
		opt(result)
	}

	return result
}

// ContractAddress returns the address that holds the engine's reserves.
func (e *Engine) ContractAddress() bitcoin.RawAddress {
	return e.address
}

// ReadBalance returns the ledger balance of an account.
func (e *Engine) ReadBalance(ctx context.Context, asset protocol.AssetCode,
	account bitcoin.RawAddress) (protocol.Amount, error) {

	ctx, span := trace.StartSpan(ctx, "settlement.Engine.ReadBalance")
	defer span.End()

	return e.token(asset).balanceOf(ctx, account)
}

// Quote returns what the receiver of an exchange or swap of amount is paid.
func (e *Engine) Quote(operation string, amount protocol.Amount) (protocol.Amount, error) {
	fee, err := e.fees.For(operation)
	if err != nil {
		return protocol.Amount{}, err
	}

	return payout(amount, fee)
}

// Send moves amount of asset from sender to receiver. Sender must authorize
//   send(receiver, asset, amount).
func (e *Engine) Send(ctx context.Context, sender, receiver bitcoin.RawAddress,
	asset protocol.AssetCode, amount protocol.Amount) error {

	ctx, span := trace.StartSpan(ctx, "settlement.Engine.Send")
	defer span.End()

	return e.run(ctx, FunctionSend, func(ctx context.Context) error {
		scope := protocol.NewAuthScope(e.address, FunctionSend, receiver, asset, amount)
		if err := e.authorize(ctx, sender, scope); err != nil {
			return err
		}

		if amount.Sign() < 0 {
			return reject(ErrInvalidAmount, "send %s", amount)
		}

		tok := e.token(asset)
		if err := e.requireBalance(ctx, tok, sender, amount, ErrInsufficientFunds); err != nil {
			return err
		}

		if err := tok.transfer(ctx, sender, receiver, amount); err != nil {
			return err
		}

		logger.Info(ctx, "Sent %s of %s from %s to %s", amount, asset, sender, receiver)
		return nil
	})
}

// Exchange takes amount of sendAsset from sender into the contract's reserves and pays
//   receiver amount less the exchange fee of receiveAsset from them. Sender must authorize
//   exchange(receiver, sendAsset, receiveAsset, amount).
func (e *Engine) Exchange(ctx context.Context, sender, receiver bitcoin.RawAddress, sendAsset,
	receiveAsset protocol.AssetCode, amount protocol.Amount) error {

	ctx, span := trace.StartSpan(ctx, "settlement.Engine.Exchange")
	defer span.End()

	return e.settle(ctx, FunctionExchange, e.fees.Exchange, sender, receiver, sendAsset,
		receiveAsset, amount)
}

// Swap is Exchange charging the swap fee. Sender must authorize
//   swap(receiver, sendAsset, receiveAsset, amount).
func (e *Engine) Swap(ctx context.Context, sender, receiver bitcoin.RawAddress, sendAsset,
	receiveAsset protocol.AssetCode, amount protocol.Amount) error {

	ctx, span := trace.StartSpan(ctx, "settlement.Engine.Swap")
	defer span.End()

	return e.settle(ctx, FunctionSwap, e.fees.Swap, sender, receiver, sendAsset, receiveAsset,
		amount)
}

// LoadTokensIntoContract moves amount of asset from an account into the contract's reserves.
//   The account must authorize load_tokens_into_contract(asset, amount).
func (e *Engine) LoadTokensIntoContract(ctx context.Context, asset protocol.AssetCode,
	from bitcoin.RawAddress, amount protocol.Amount) error {

	ctx, span := trace.StartSpan(ctx, "settlement.Engine.LoadTokensIntoContract")
	defer span.End()

	return e.run(ctx, FunctionLoad, func(ctx context.Context) error {
		scope := protocol.NewAuthScope(e.address, FunctionLoad, asset, amount)
		if err := e.authorize(ctx, from, scope); err != nil {
			return err
		}

		if amount.Sign() < 0 {
			return reject(ErrInvalidAmount, "load %s", amount)
		}

		// The ledger enforces the balance.
		if err := e.token(asset).transfer(ctx, from, e.address, amount); err != nil {
			return err
		}

		logger.Info(ctx, "Loaded %s of %s from %s", amount, asset, from)
		return nil
	})
}

// settle implements exchange and swap. All checks, including the liquidity check against the
//   reserve before the sender's funds arrive, complete before the first transfer.
func (e *Engine) settle(ctx context.Context, function string, fee protocol.Amount, sender,
	receiver bitcoin.RawAddress, sendAsset, receiveAsset protocol.AssetCode,
	amount protocol.Amount) error {

	err := e.run(ctx, function, func(ctx context.Context) error {
		scope := protocol.NewAuthScope(e.address, function, receiver, sendAsset, receiveAsset,
			amount)
		if err := e.authorize(ctx, sender, scope); err != nil {
			return err
		}

		if amount.Sign() < 0 {
			return reject(ErrInvalidAmount, "%s %s", function, amount)
		}

		if sendAsset.Equal(receiveAsset) {
			return reject(ErrSameAsset, "%s %s", function, sendAsset)
		}

		pull := e.token(sendAsset)
		push := e.token(receiveAsset)

		if err := e.requireBalance(ctx, pull, sender, amount, ErrInsufficientFunds); err != nil {
			return err
		}

		if err := e.requireBalance(ctx, push, e.address, amount,
			ErrInsufficientLiquidity); err != nil {
			return err
		}

		amountAfterFee, err := payout(amount, fee)
		if err != nil {
			return err
		}

		if err := pull.transfer(ctx, sender, e.address, amount); err != nil {
			return err
		}

		if err := push.transfer(ctx, e.address, receiver, amountAfterFee); err != nil {
			return err
		}

		logger.Info(ctx, "Settled %s of %s from %s for %s of %s to %s (fee %s)", amount,
			sendAsset, sender, amountAfterFee, receiveAsset, receiver, fee)
		return nil
	})
	if err != nil {
		return err
	}

	value, _ := fee.Decimal().Float64()
	e.metrics.fee(function, value)
	return nil
}

// run executes one mutating operation with its own log trace.
func (e *Engine) run(ctx context.Context, operation string,
	fn func(ctx context.Context) error) error {

	start := time.Now()
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)
	ctx = logger.ContextWithLogTrace(ctx, uuid.New().String())

	err := e.executor.Execute(ctx, fn)
	e.metrics.observe(operation, start, err)
	if err != nil {
		logger.Warn(ctx, "Rejected %s : %s", operation, err)
		return err
	}

	return nil
}

func (e *Engine) authorize(ctx context.Context, account bitcoin.RawAddress,
	scope protocol.AuthScope) error {

	if err := e.authorizer.RequireAuth(ctx, account, scope); err != nil {
		return reject(ErrAuthorization, "%s for %s : %s", account, scope, err)
	}
	return nil
}

// requireBalance returns sentinel when account holds less than amount.
func (e *Engine) requireBalance(ctx context.Context, tok token, account bitcoin.RawAddress,
	amount protocol.Amount, sentinel RejectError) error {

	balance, err := tok.balanceOf(ctx, account)
	if err != nil {
		return errors.Wrapf(err, "balance %s", account)
	}

	if balance.LessThan(amount) {
		return reject(sentinel, "%s holds %s of %s, needs %s", account, balance, tok.asset,
			amount)
	}

	return nil
}

// payout returns amount less fee. It must be positive.
func payout(amount, fee protocol.Amount) (protocol.Amount, error) {
	result, err := amount.Sub(fee)
	if err != nil {
		return protocol.Amount{}, errors.Wrap(err, "payout")
	}

	if !result.IsPositive() {
		return protocol.Amount{}, reject(ErrFeeExceedsAmount, "fee %s, amount %s", fee, amount)
	}

	return result, nil
}
