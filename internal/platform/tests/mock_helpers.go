package tests

import (
	"context"
	"sync"

	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"

	"github.com/pkg/errors"
)

var (
	ErrMockInsufficient = errors.New("Mock balance insufficient")
)

// MockTransfer records one transfer applied by a MockLedger.
type MockTransfer struct {
	Asset  protocol.AssetCode
	From   bitcoin.RawAddress
	To     bitcoin.RawAddress
	Amount protocol.Amount
}

// MockLedger is an in memory ledger that records every transfer. FailTransfer, when set, is
//   called before each transfer and its error is returned instead of applying the transfer.
type MockLedger struct {
	FailTransfer func(MockTransfer) error

	balances  map[protocol.AssetCode]map[bitcoin.RawAddress]protocol.Amount
	transfers []MockTransfer
	lock      sync.Mutex
}

func NewMockLedger() *MockLedger {
	return &MockLedger{
		balances: make(map[protocol.AssetCode]map[bitcoin.RawAddress]protocol.Amount),
	}
}

// SetBalance sets a balance directly.
func (l *MockLedger) SetBalance(asset protocol.AssetCode, account bitcoin.RawAddress,
	amount protocol.Amount) {

	l.lock.Lock()
	defer l.lock.Unlock()

	holdings, exists := l.balances[asset]
	if !exists {
		holdings = make(map[bitcoin.RawAddress]protocol.Amount)
		l.balances[asset] = holdings
	}
	holdings[account] = amount
}

// Balance returns the balance of an account. Unknown accounts have a zero balance.
func (l *MockLedger) Balance(ctx context.Context, asset protocol.AssetCode,
	account bitcoin.RawAddress) (protocol.Amount, error) {

	l.lock.Lock()
	defer l.lock.Unlock()

	return l.balances[asset][account], nil
}

// Transfer moves amount between accounts.
func (l *MockLedger) Transfer(ctx context.Context, asset protocol.AssetCode, from,
	to bitcoin.RawAddress, amount protocol.Amount) error {

	transfer := MockTransfer{Asset: asset, From: from, To: to, Amount: amount}
	if l.FailTransfer != nil {
		if err := l.FailTransfer(transfer); err != nil {
			return err
		}
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	holdings, exists := l.balances[asset]
	if !exists {
		holdings = make(map[bitcoin.RawAddress]protocol.Amount)
		l.balances[asset] = holdings
	}

	if holdings[from].LessThan(amount) {
		return ErrMockInsufficient
	}

	fromBalance, err := holdings[from].Sub(amount)
	if err != nil {
		return err
	}
	holdings[from] = fromBalance

	toBalance, err := holdings[to].Add(amount)
	if err != nil {
		return err
	}
	holdings[to] = toBalance

	l.transfers = append(l.transfers, transfer)
	return nil
}

// Transfers returns the transfers applied so far.
func (l *MockLedger) Transfers() []MockTransfer {
	l.lock.Lock()
	defer l.lock.Unlock()

	result := make([]MockTransfer, len(l.transfers))
	copy(result, l.transfers)
	return result
}
