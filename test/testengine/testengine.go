// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testengine builds a funded in-memory engine for tests.
package testengine

import (
	"math/big"

	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/lvldb"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/test/datagen"
	"github.com/vechain/accrual/thor"
)

// GenesisTime is the block time of a new engine.
const GenesisTime uint64 = 1_700_000_000

var (
	Admin       = thor.NamedAddress("admin")
	DevAccounts = []thor.Address{
		thor.NamedAddress("dev-1"),
		thor.NamedAddress("dev-2"),
		thor.NamedAddress("dev-3"),
	}
	// Funds is the native and token balance of every dev account.
	Funds = datagen.Ether(1_000_000)
)

// Env is an engine over a memory database.
type Env struct {
	*engine.Engine
	db *lvldb.LevelDB
}

// New returns a bootstrapped engine. Dev accounts hold native coin and both tokens,
// and have approved the staking contract for their stake tokens.
func New() (*Env, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	e := engine.New(state.New(db), runtime.BlockContext{Time: GenesisTime})
	if err := e.Bootstrap(Admin); err != nil {
		db.Close()
		return nil, err
	}
	env := &Env{Engine: e, db: db}
	_, err = env.Advance(0, func(e *engine.Engine) error {
		for _, acc := range DevAccounts {
			if err := e.Runtime().State().SetBalance(acc, new(big.Int).Set(Funds)); err != nil {
				return err
			}
			if err := e.StakeToken.Mint(Admin, acc, Funds); err != nil {
				return err
			}
			if err := e.RewardToken.Mint(Admin, acc, Funds); err != nil {
				return err
			}
			if err := e.StakeToken.Approve(acc, engine.StakingAddress, Funds); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return env, nil
}

// Advance moves to the next block, seconds later, and runs fn in it.
func (e *Env) Advance(seconds uint64, fn func(*engine.Engine) error) ([]*runtime.Event, error) {
	blk := e.Block()
	return e.Update(runtime.BlockContext{Number: blk.Number + 1, Time: blk.Time + seconds}, fn)
}

func (e *Env) Close() error {
	e.Engine.Close()
	return e.db.Close()
}
