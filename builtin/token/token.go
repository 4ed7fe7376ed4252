// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/thor"
)

var (
	slotTotalSupply = thor.Blake2b([]byte("total-supply"))
	slotBalances    = thor.Blake2b([]byte("balances"))
	slotAllowances  = thor.Blake2b([]byte("allowances"))
)

// ERC20 is the token surface consumed by the engines.
type ERC20 interface {
	Address() thor.Address
	BalanceOf(owner thor.Address) (*big.Int, error)
	Transfer(from, to thor.Address, amount *big.Int) error
	TransferFrom(spender, from, to thor.Address, amount *big.Int) error
}

// Token is an ERC20 shaped token kept in contract state.
type Token struct {
	addr        thor.Address
	rt          *runtime.Runtime
	auth        authority.Authorizer
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *big.Int]
}

var _ ERC20 = (*Token)(nil)

// New creates a token at addr. Minting requires token.mint.
func New(addr thor.Address, rt *runtime.Runtime, auth authority.Authorizer) *Token {
	ctx := solidity.NewContext(addr, rt.State())
	return &Token{
		addr:        addr,
		rt:          rt,
		auth:        auth,
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *big.Int](ctx, slotAllowances),
	}
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

func (t *Token) Address() thor.Address {
	return t.addr
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(owner thor.Address) (*big.Int, error) {
	return t.balances.Get(owner)
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

func (t *Token) Mint(caller, to thor.Address, amount *big.Int) error {
	return t.rt.Exec(func() error {
		if err := authority.Require(t.auth, caller, authority.TokenMint); err != nil {
			return err
		}
		if to.IsZero() {
			return reverts.ZeroAddress()
		}
		if err := t.totalSupply.Add(amount); err != nil {
			return err
		}
		bal, err := t.balances.Get(to)
		if err != nil {
			return err
		}
		if bal, err = solidity.Add256(bal, amount); err != nil {
			return err
		}
		if err := t.balances.Set(to, bal); err != nil {
			return err
		}
		t.rt.Emit(t.addr, "Transfer", thor.Address{}, to, amount)
		return nil
	})
}

func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	return t.rt.Exec(func() error {
		return t.move(from, to, amount)
	})
}

// TransferFrom moves amount on behalf of from, consuming the allowance granted to spender.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	return t.rt.Exec(func() error {
		key := allowanceKey(from, spender)
		allowed, err := t.allowances.Get(key)
		if err != nil {
			return err
		}
		if allowed.Cmp(amount) < 0 {
			return reverts.InsufficientAllowance(from, spender, allowed, amount)
		}
		if err := t.allowances.Set(key, new(big.Int).Sub(allowed, amount)); err != nil {
			return err
		}
		return t.move(from, to, amount)
	})
}

func (t *Token) move(from, to thor.Address, amount *big.Int) error {
	if to.IsZero() {
		return reverts.ZeroAddress()
	}
	bal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.InsufficientBalance(from, bal, amount)
	}
	if err := t.balances.Set(from, new(big.Int).Sub(bal, amount)); err != nil {
		return err
	}
	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if toBal, err = solidity.Add256(toBal, amount); err != nil {
		return err
	}
	if err := t.balances.Set(to, toBal); err != nil {
		return err
	}
	t.rt.Emit(t.addr, "Transfer", from, to, amount)
	return nil
}

func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	return t.rt.Exec(func() error {
		return t.approve(owner, spender, amount)
	})
}

func (t *Token) approve(owner, spender thor.Address, amount *big.Int) error {
	if spender.IsZero() {
		return reverts.ZeroAddress()
	}
	if err := t.allowances.Set(allowanceKey(owner, spender), amount); err != nil {
		return err
	}
	t.rt.Emit(t.addr, "Approval", owner, spender, amount)
	return nil
}

func (t *Token) IncreaseAllowance(owner, spender thor.Address, added *big.Int) error {
	return t.rt.Exec(func() error {
		current, err := t.Allowance(owner, spender)
		if err != nil {
			return err
		}
		next, err := solidity.Add256(current, added)
		if err != nil {
			return err
		}
		return t.approve(owner, spender, next)
	})
}

func (t *Token) DecreaseAllowance(owner, spender thor.Address, subtracted *big.Int) error {
	return t.rt.Exec(func() error {
		current, err := t.Allowance(owner, spender)
		if err != nil {
			return err
		}
		if current.Cmp(subtracted) < 0 {
			return reverts.InsufficientAllowance(owner, spender, current, subtracted)
		}
		return t.approve(owner, spender, new(big.Int).Sub(current, subtracted))
	})
}
