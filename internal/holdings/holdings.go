package holdings

import (
	"context"
	"time"

	"github.com/tokenized/settlement/internal/platform/db"
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
	sync "github.com/sasha-s/go-deadlock"
	"github.com/tokenized/pkg/logger"
	"go.opencensus.io/trace"
)

const (
	SubSystem = "Holdings" // For logger
)

type key int

const keyJournal key = 0

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Holding not found")

	// ErrInsufficientHoldings occurs when the address doesn't hold enough tokens for the operation.
	ErrInsufficientHoldings = errors.New("Holdings insufficient")

	// ErrInvalidQuantity occurs when a negative quantity is moved.
	ErrInvalidQuantity = errors.New("Invalid quantity")
)

// Ledger tracks asset balances for the accounts of one contract. Every mutation is written
//   through to storage. Mutations are serialized, so a transfer never sees a balance another
//   transfer is half way through changing.
type Ledger struct {
	dbConn   *db.DB
	contract bitcoin.RawAddress
	cache    *holdingsCache

	lock     sync.Mutex // held for every balance mutation
	execLock sync.Mutex // held for the whole of an Execute call

	now func() time.Time
}

// NewLedger returns a ledger for the holdings of contract stored in dbConn.
func NewLedger(dbConn *db.DB, contract bitcoin.RawAddress) *Ledger {
	return &Ledger{
		dbConn:   dbConn,
		contract: contract,
		cache:    newHoldingsCache(),
		now:      time.Now,
	}
}

// GetHolding returns the holding for an address, or an empty holding if the address has never
//   held the asset.
func (l *Ledger) GetHolding(ctx context.Context, asset protocol.AssetCode,
	address bitcoin.RawAddress) (*Holding, error) {

	result, err := l.fetch(ctx, asset, address)
	if err == nil {
		return result, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	now := l.now().UnixNano()
	return &Holding{
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Balance returns the balance of an address.
func (l *Ledger) Balance(ctx context.Context, asset protocol.AssetCode,
	address bitcoin.RawAddress) (protocol.Amount, error) {

	ctx, span := trace.StartSpan(ctx, "holdings.Ledger.Balance")
	defer span.End()

	h, err := l.GetHolding(ctx, asset, address)
	if err != nil {
		return protocol.Amount{}, err
	}

	return h.Balance, nil
}

// Transfer moves amount of the asset from one address to another. It fails without changing
//   anything if the sender's balance is below amount.
func (l *Ledger) Transfer(ctx context.Context, asset protocol.AssetCode, from,
	to bitcoin.RawAddress, amount protocol.Amount) error {

	ctx, span := trace.StartSpan(ctx, "holdings.Ledger.Transfer")
	defer span.End()

	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	if amount.Sign() < 0 {
		return ErrInvalidQuantity
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	fromHolding, err := l.GetHolding(ctx, asset, from)
	if err != nil {
		return errors.Wrap(err, "sender holding")
	}

	if fromHolding.Balance.LessThan(amount) {
		return errors.Wrapf(ErrInsufficientHoldings, "%s has %s, needs %s", from,
			fromHolding.Balance, amount)
	}

	if from.Equal(to) {
		return nil
	}

	toHolding, err := l.GetHolding(ctx, asset, to)
	if err != nil {
		return errors.Wrap(err, "receiver holding")
	}

	newFrom, err := fromHolding.Balance.Sub(amount)
	if err != nil {
		return errors.Wrap(err, "debit")
	}
	newTo, err := toHolding.Balance.Add(amount)
	if err != nil {
		return errors.Wrap(err, "credit")
	}

	now := l.now().UnixNano()
	fromHolding.Balance = newFrom
	fromHolding.UpdatedAt = now
	toHolding.Balance = newTo
	toHolding.UpdatedAt = now

	if err := l.save(ctx, asset, fromHolding); err != nil {
		return err
	}
	if err := l.save(ctx, asset, toHolding); err != nil {
		return err
	}

	record(ctx, entry{asset: asset, from: &from, to: to, amount: amount})

	logger.Verbose(ctx, "Transferred %s of %s from %s to %s", amount, asset, from, to)
	return nil
}

// Issue credits new supply of an asset to an address. Reserves and test balances are seeded with
//   it.
func (l *Ledger) Issue(ctx context.Context, asset protocol.AssetCode, to bitcoin.RawAddress,
	amount protocol.Amount) error {

	ctx, span := trace.StartSpan(ctx, "holdings.Ledger.Issue")
	defer span.End()

	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	if amount.Sign() < 0 {
		return ErrInvalidQuantity
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	h, err := l.GetHolding(ctx, asset, to)
	if err != nil {
		return errors.Wrap(err, "holding")
	}

	h.Balance, err = h.Balance.Add(amount)
	if err != nil {
		return errors.Wrap(err, "credit")
	}
	h.UpdatedAt = l.now().UnixNano()

	if err := l.save(ctx, asset, h); err != nil {
		return err
	}

	record(ctx, entry{asset: asset, to: to, amount: amount})

	logger.Info(ctx, "Issued %s of %s to %s", amount, asset, to)
	return nil
}

// Supply returns the total of all balances of an asset.
func (l *Ledger) Supply(ctx context.Context, asset protocol.AssetCode) (protocol.Amount, error) {
	addresses, err := l.listAddresses(ctx, asset)
	if err != nil {
		return protocol.Amount{}, err
	}

	var result protocol.Amount
	for _, address := range addresses {
		balance, err := l.Balance(ctx, asset, address)
		if err != nil {
			return protocol.Amount{}, errors.Wrapf(err, "balance %s", address)
		}

		result, err = result.Add(balance)
		if err != nil {
			return protocol.Amount{}, err
		}
	}

	return result, nil
}

// Execute runs fn as one unit. When fn returns an error every transfer and issue it made
//   through this ledger is reversed, then the actions registered with db.OnUndo on fn's context
//   are run. Execute calls are serialized.
func (l *Ledger) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	l.execLock.Lock()
	defer l.execLock.Unlock()

	j := &journal{}
	fnCtx, undo := db.ContextWithUndo(context.WithValue(ctx, keyJournal, j))
	fnErr := fn(fnCtx)
	if fnErr == nil {
		return nil
	}

	if err := l.rollback(ctx, j); err != nil {
		return errors.Wrapf(err, "rollback after : %s", fnErr)
	}

	if err := undo.Run(ctx); err != nil {
		return errors.Wrapf(err, "undo after : %s", fnErr)
	}

	return fnErr
}

func record(ctx context.Context, e entry) {
	v := ctx.Value(keyJournal)
	if v == nil {
		return
	}
	j := v.(*journal)
	j.entries = append(j.entries, e)
}

// rollback reverses journal entries newest first. Balances are restored directly, without the
//   sufficiency checks of a transfer.
func (l *Ledger) rollback(ctx context.Context, j *journal) error {
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	l.lock.Lock()
	defer l.lock.Unlock()

	for i := len(j.entries) - 1; i >= 0; i-- {
		e := j.entries[i]

		if err := l.adjust(ctx, e.asset, e.to, e.amount, false); err != nil {
			return errors.Wrapf(err, "revert credit to %s", e.to)
		}

		if e.from != nil {
			if err := l.adjust(ctx, e.asset, *e.from, e.amount, true); err != nil {
				return errors.Wrapf(err, "revert debit from %s", *e.from)
			}
		}

		logger.Warn(ctx, "Reverted %s of %s to %s", e.amount, e.asset, e.to)
	}

	return nil
}

func (l *Ledger) adjust(ctx context.Context, asset protocol.AssetCode,
	address bitcoin.RawAddress, amount protocol.Amount, credit bool) error {

	h, err := l.GetHolding(ctx, asset, address)
	if err != nil {
		return err
	}

	if credit {
		h.Balance, err = h.Balance.Add(amount)
	} else {
		h.Balance, err = h.Balance.Sub(amount)
	}
	if err != nil {
		return err
	}
	h.UpdatedAt = l.now().UnixNano()

	return l.save(ctx, asset, h)
}
