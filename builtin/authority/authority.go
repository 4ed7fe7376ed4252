// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package authority answers "is caller authorized for action X" for the built-in engines.
package authority

import (
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/thor"
)

// Action names a privileged operation.
type Action string

const (
	StakingNotify   Action = "staking.notify"
	StakingDuration Action = "staking.duration"
	StakingRecover  Action = "staking.recover"
	SplitterAdmin   Action = "splitter.admin"
	FeeReset        Action = "fee.reset"
	FeeDistribute   Action = "fee.distribute"
	FeeAdmin        Action = "fee.admin"
	TokenMint       Action = "token.mint"
	OracleUpdate    Action = "oracle.update"
	AppDeveloper    Action = "app.developer"
)

// Actions lists every known action.
var Actions = []Action{
	StakingNotify, StakingDuration, StakingRecover,
	SplitterAdmin,
	FeeReset, FeeDistribute, FeeAdmin,
	TokenMint, OracleUpdate, AppDeveloper,
}

// Authorizer is the capability check consulted at the top of privileged operations.
type Authorizer interface {
	IsAuthorized(caller thor.Address, action Action) bool
}

// AllowFunc adapts a func to Authorizer.
type AllowFunc func(caller thor.Address, action Action) bool

func (f AllowFunc) IsAuthorized(caller thor.Address, action Action) bool {
	return f(caller, action)
}

// AllowAll authorizes everyone for everything.
type AllowAll struct{}

func (AllowAll) IsAuthorized(thor.Address, Action) bool { return true }

// Only authorizes the listed callers for every action.
func Only(callers ...thor.Address) Authorizer {
	set := make(map[thor.Address]struct{}, len(callers))
	for _, c := range callers {
		set[c] = struct{}{}
	}
	return AllowFunc(func(caller thor.Address, _ Action) bool {
		_, ok := set[caller]
		return ok
	})
}

// Require reverts with Unauthorized when caller lacks action.
func Require(auth Authorizer, caller thor.Address, action Action) error {
	if auth == nil || !auth.IsAuthorized(caller, action) {
		return reverts.Unauthorized(caller, string(action))
	}
	return nil
}
