// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/accrual/builtin/reverts"
)

// Checked 256-bit arithmetic. Any result outside [0, 2^256) reverts, as solidity >= 0.8 does.

func toU256(op string, x *big.Int) (*uint256.Int, error) {
	if x == nil {
		return new(uint256.Int), nil
	}
	if x.Sign() < 0 {
		return nil, reverts.Arithmetic(op)
	}
	u, overflow := uint256.FromBig(x)
	if overflow {
		return nil, reverts.Arithmetic(op)
	}
	return u, nil
}

// toBig converts z, zero comes back as new(big.Int).
func toBig(z *uint256.Int) *big.Int {
	if z.IsZero() {
		return new(big.Int)
	}
	return z.ToBig()
}

func checkRange(x *big.Int) error {
	_, err := toU256("store", x)
	return err
}

func operands(op string, a, b *big.Int) (*uint256.Int, *uint256.Int, error) {
	x, err := toU256(op, a)
	if err != nil {
		return nil, nil, err
	}
	y, err := toU256(op, b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func Add256(a, b *big.Int) (*big.Int, error) {
	x, y, err := operands("add", a, b)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, reverts.Arithmetic("add")
	}
	return toBig(z), nil
}

func Sub256(a, b *big.Int) (*big.Int, error) {
	x, y, err := operands("sub", a, b)
	if err != nil {
		return nil, err
	}
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, reverts.Arithmetic("sub")
	}
	return toBig(z), nil
}

func Mul256(a, b *big.Int) (*big.Int, error) {
	x, y, err := operands("mul", a, b)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, reverts.Arithmetic("mul")
	}
	return toBig(z), nil
}

// Div256 is floor division. Division by zero reverts.
func Div256(a, b *big.Int) (*big.Int, error) {
	x, y, err := operands("div", a, b)
	if err != nil {
		return nil, err
	}
	if y.IsZero() {
		return nil, reverts.Arithmetic("div")
	}
	return toBig(new(uint256.Int).Div(x, y)), nil
}

// MulDiv returns floor(a * b / c), reverting if the product overflows.
func MulDiv(a, b, c *big.Int) (*big.Int, error) {
	p, err := Mul256(a, b)
	if err != nil {
		return nil, err
	}
	return Div256(p, c)
}

// Min returns the smaller of a and b.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
