// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/accrual/thor"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// Add and Sub revert on overflow and underflow.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	if storage.IsZero() {
		return new(big.Int), nil
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) error {
	if err := checkRange(value); err != nil {
		return err
	}
	u.context.state.SetStorage(u.context.address, u.pos, thor.BytesToBytes32(value.Bytes()))
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	sum, err := Add256(storage, value)
	if err != nil {
		return err
	}
	return u.Set(sum)
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	diff, err := Sub256(storage, value)
	if err != nil {
		return err
	}
	return u.Set(diff)
}

// Uint64 stores a uint64 such as a timestamp or a counter.
type Uint64 struct {
	u *Uint256
}

func NewUint64(context *Context, pos thor.Bytes32) *Uint64 {
	return &Uint64{u: NewUint256(context, pos)}
}

func (u *Uint64) Get() (uint64, error) {
	v, err := u.u.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (u *Uint64) Set(value uint64) {
	// a uint64 always fits
	_ = u.u.Set(new(big.Int).SetUint64(value))
}
