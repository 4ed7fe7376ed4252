// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the typed rejections raised by the built-in engines.
// A revert aborts the running transaction and none of its effects survive.
package reverts

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/vechain/accrual/thor"
)

// Kind groups reverts so callers can tell "you didn't qualify" from "the system couldn't pay you".
type Kind uint8

const (
	KindPrecondition Kind = iota + 1
	KindTimeGate
	KindTransfer
	KindAuthorization
	KindArithmetic
	KindReentrancy
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindTimeGate:
		return "time-gate"
	case KindTransfer:
		return "transfer"
	case KindAuthorization:
		return "authorization"
	case KindArithmetic:
		return "arithmetic"
	case KindReentrancy:
		return "reentrancy"
	}
	return "unknown"
}

// ErrRevert is a typed rejection. Two reverts are the same error (errors.Is) when their signatures match,
// the payload is carried for inspection only.
type ErrRevert struct {
	kind      Kind
	signature string
	code      string
	args      []any
}

func newRevert(kind Kind, signature string) *ErrRevert {
	return &ErrRevert{kind: kind, signature: signature}
}

func newCoded(kind Kind, code, signature string) *ErrRevert {
	return &ErrRevert{kind: kind, code: code, signature: signature}
}

// with returns a copy of the revert carrying args as payload.
func (e *ErrRevert) with(args ...any) *ErrRevert {
	cpy := *e
	cpy.args = args
	return &cpy
}

func (e *ErrRevert) Kind() Kind { return e.kind }

// Name returns the error name without its argument types.
func (e *ErrRevert) Name() string {
	if i := strings.IndexByte(e.signature, '('); i >= 0 {
		return e.signature[:i]
	}
	return e.signature
}

// Code returns the short numeric code, empty for named errors.
func (e *ErrRevert) Code() string { return e.code }

// Args returns the payload.
func (e *ErrRevert) Args() []any { return e.args }

func (e *ErrRevert) Error() string {
	var b strings.Builder
	if e.code != "" {
		b.WriteString(e.code)
		b.WriteString(": ")
	}
	b.WriteString(e.Name())
	b.WriteByte('(')
	for i, arg := range e.args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, arg)
	}
	b.WriteByte(')')
	return b.String()
}

func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	return ok && t.signature == e.signature
}

// Bytes returns the ABI revert data. Coded reverts encode as Error(string) with the code as message,
// named reverts as the 4-byte selector followed by the static arguments.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	if e.code != "" {
		return encodeErrorString(e.code)
	}
	selector := thor.Keccak256([]byte(e.signature))
	encoded := append([]byte{}, selector[:4]...)
	for _, arg := range e.args {
		var word [32]byte
		switch v := arg.(type) {
		case thor.Address:
			copy(word[12:], v[:])
		case *big.Int:
			if v != nil {
				v.FillBytes(word[:])
			}
		case uint64:
			binary.BigEndian.PutUint64(word[24:], v)
		case string:
			copy(word[:], thor.Keccak256([]byte(v)).Bytes())
		}
		encoded = append(encoded, word[:]...)
	}
	return encoded
}

func encodeErrorString(message string) []byte {
	// 4-byte selector for Error(string)
	selector := []byte{0x08, 0xc3, 0x79, 0xa0}
	msgBytes := []byte(message)
	padded := ((len(msgBytes) + 31) / 32) * 32

	encoded := make([]byte, 0, 4+32+32+padded)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], uint64(len(msgBytes)))
	encoded = append(encoded, length...)

	data := make([]byte, padded)
	copy(data, msgBytes)
	return append(encoded, data...)
}

// IsRevertErr reports whether err is or wraps a revert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var re *ErrRevert
	return errors.As(e, &re) && re != nil
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	var re *ErrRevert
	return errors.As(err, &re) && re.kind == kind
}

// Code returns the numeric code of the revert in err, or empty string.
func Code(err error) string {
	var re *ErrRevert
	if errors.As(err, &re) {
		return re.code
	}
	return ""
}
