package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/tokenized/settlement/pkg/bitcoin"

	"github.com/pkg/errors"
)

const (
	authScopeVersion = 0

	argTypeAddress   = 0x01
	argTypeAssetCode = 0x02
	argTypeAmount    = 0x03
)

var (
	ErrUnsupportedArg = errors.New("Unsupported authorization argument")
)

// AuthScope is the exact set of parameters an account approves. An authorization is only valid
//   for the contract, function, and argument values it was created for.
type AuthScope struct {
	Contract bitcoin.RawAddress
	Function string

	// Args holds bitcoin.RawAddress, AssetCode, and Amount values in call order.
	Args []interface{}
}

// NewAuthScope returns a scope for a call to function on contract.
func NewAuthScope(contract bitcoin.RawAddress, function string, args ...interface{}) AuthScope {
	return AuthScope{
		Contract: contract,
		Function: function,
		Args:     args,
	}
}

// Serialize writes the deterministic binary form of the scope.
func (s AuthScope) Serialize(buf *bytes.Buffer) error {
	if err := buf.WriteByte(authScopeVersion); err != nil {
		return err
	}

	if err := s.Contract.Serialize(buf); err != nil {
		return errors.Wrap(err, "contract")
	}

	if len(s.Function) > 255 {
		return errors.New("Function name too long")
	}
	if err := buf.WriteByte(uint8(len(s.Function))); err != nil {
		return err
	}
	if _, err := buf.WriteString(s.Function); err != nil {
		return err
	}

	if err := binary.Write(buf, binary.LittleEndian, uint8(len(s.Args))); err != nil {
		return err
	}

	for i, arg := range s.Args {
		if err := serializeArg(buf, arg); err != nil {
			return errors.Wrapf(err, "arg %d", i)
		}
	}

	return nil
}

func serializeArg(buf *bytes.Buffer, arg interface{}) error {
	switch v := arg.(type) {
	case bitcoin.RawAddress:
		buf.WriteByte(argTypeAddress)
		return v.Serialize(buf)
	case AssetCode:
		buf.WriteByte(argTypeAssetCode)
		return v.Serialize(buf)
	case Amount:
		buf.WriteByte(argTypeAmount)
		return v.Serialize(buf)
	default:
		return errors.Wrapf(ErrUnsupportedArg, "%T", arg)
	}
}

// Digest returns the double SHA256 of the serialized scope. Signatures authorize a digest.
func (s AuthScope) Digest() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Serialize(&buf); err != nil {
		return nil, err
	}
	return bitcoin.DoubleSha256(buf.Bytes()), nil
}

func (s AuthScope) String() string {
	args := make([]string, 0, len(s.Args))
	for _, arg := range s.Args {
		args = append(args, fmt.Sprintf("%s", arg))
	}
	return fmt.Sprintf("%s(%s)", s.Function, strings.Join(args, ", "))
}
