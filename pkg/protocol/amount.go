package protocol

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// AmountPrecision is the number of fractional decimal digits carried by an Amount.
	AmountPrecision = 7

	amountSize = 16 // bytes in the serialized form, a 128 bit two's complement integer
)

var (
	ErrAmountOutOfRange = errors.New("Amount out of range")
	ErrAmountPrecision  = errors.New("Amount has too many decimal places")

	maxAmount   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minAmount   = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	modulus128  = new(big.Int).Lsh(big.NewInt(1), 128)
	amountScale = decimal.New(1, AmountPrecision)
)

// Amount is a signed fixed point quantity of an asset. The integer value is the real quantity
//   times 10^7. It holds any value of a signed 128 bit integer. The zero value is zero.
//
// Amounts are immutable. Arithmetic returns new values.
type Amount struct {
	value *big.Int
}

// NewAmount returns an amount of the given number of units (10^-7 of the asset).
func NewAmount(units int64) Amount {
	return Amount{value: big.NewInt(units)}
}

// AmountFromBigInt returns an amount of v units. v is copied.
func AmountFromBigInt(v *big.Int) (Amount, error) {
	if v.Cmp(maxAmount) > 0 || v.Cmp(minAmount) < 0 {
		return Amount{}, ErrAmountOutOfRange
	}
	return Amount{value: new(big.Int).Set(v)}, nil
}

// ParseAmount parses a decimal quantity like "49.99" into an amount.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, errors.Wrap(err, "parse decimal")
	}

	scaled := d.Mul(amountScale)
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, ErrAmountPrecision
	}

	v, ok := new(big.Int).SetString(scaled.StringFixed(0), 10)
	if !ok {
		return Amount{}, errors.Errorf("Invalid amount : %s", s)
	}

	return AmountFromBigInt(v)
}

// ParseUnits parses an integer count of units.
func ParseUnits(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Errorf("Invalid units : %s", s)
	}
	return AmountFromBigInt(v)
}

func (a Amount) int() *big.Int {
	if a.value == nil {
		return new(big.Int)
	}
	return a.value
}

// BigInt returns a copy of the integer units.
func (a Amount) BigInt() *big.Int {
	return new(big.Int).Set(a.int())
}

// Sign returns -1, 0, or 1 for negative, zero, and positive amounts.
func (a Amount) Sign() int {
	return a.int().Sign()
}

// IsPositive returns true when the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.Sign() > 0
}

// Cmp compares two amounts and returns -1, 0, or 1.
func (a Amount) Cmp(o Amount) int {
	return a.int().Cmp(o.int())
}

// LessThan returns true when a < o.
func (a Amount) LessThan(o Amount) bool {
	return a.Cmp(o) < 0
}

// Equal returns true when both amounts have the same value.
func (a Amount) Equal(o Amount) bool {
	return a.Cmp(o) == 0
}

// Add returns a + o.
func (a Amount) Add(o Amount) (Amount, error) {
	return AmountFromBigInt(new(big.Int).Add(a.int(), o.int()))
}

// Sub returns a - o.
func (a Amount) Sub(o Amount) (Amount, error) {
	return AmountFromBigInt(new(big.Int).Sub(a.int(), o.int()))
}

// Neg returns -a.
func (a Amount) Neg() (Amount, error) {
	return AmountFromBigInt(new(big.Int).Neg(a.int()))
}

// Decimal returns the real quantity.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(a.int(), -AmountPrecision)
}

// String returns the real quantity as decimal text with trailing zeros removed.
func (a Amount) String() string {
	return a.Decimal().String()
}

// Units returns the integer units as decimal text.
func (a Amount) Units() string {
	return a.int().String()
}

// Serialize writes the amount as a 16 byte big-endian two's complement integer.
func (a Amount) Serialize(w io.Writer) error {
	v := a.int()
	if v.Sign() < 0 {
		v = new(big.Int).Add(v, modulus128)
	}

	b := v.Bytes()
	buf := make([]byte, amountSize)
	copy(buf[amountSize-len(b):], b)

	_, err := w.Write(buf)
	return err
}

// Deserialize reads an amount written by Serialize.
func (a *Amount) Deserialize(r io.Reader) error {
	buf := make([]byte, amountSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}

	v := new(big.Int).SetBytes(buf)
	if buf[0]&0x80 != 0 {
		v.Sub(v, modulus128)
	}

	a.value = v
	return nil
}

// MarshalJSON converts to json as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON converts from a json decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
