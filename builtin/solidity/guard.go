// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/thor"
)

// Guard is a reentrancy lock kept in contract storage.
type Guard struct {
	entered *Bool
}

func NewGuard(context *Context, pos thor.Bytes32) *Guard {
	return &Guard{entered: NewBool(context, pos)}
}

// Enter locks the guard, a nested entry reverts with ReentrantCall.
// The returned func releases the lock.
func (g *Guard) Enter() (func(), error) {
	entered, err := g.entered.Get()
	if err != nil {
		return nil, err
	}
	if entered {
		return nil, reverts.ReentrantCall()
	}
	g.entered.Set(true)
	return func() { g.entered.Set(false) }, nil
}

// Run executes fn while holding the lock.
func (g *Guard) Run(fn func() error) error {
	exit, err := g.Enter()
	if err != nil {
		return err
	}
	defer exit()
	return fn()
}
