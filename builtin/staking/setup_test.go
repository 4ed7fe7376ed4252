// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/token"
	"github.com/vechain/accrual/lvldb"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

func M(a ...any) []any {
	return a
}

var (
	admin = thor.BytesToAddress([]byte("admin"))
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
	carol = thor.BytesToAddress([]byte("carol"))

	stakingAddr = thor.BytesToAddress([]byte("staking"))
)

const genesisTime = 1000

type testEnv struct {
	rt       *runtime.Runtime
	staking  *Staking
	stakeTok *token.Token
	rewardTk *token.Token
}

// newTestEnv creates a staking contract with distinct staking and reward tokens.
// Every staker is funded with tokens (approved to the contract) and native coin.
func newTestEnv(t *testing.T, duration uint64) *testEnv {
	return newTestEnvWithTokens(t, duration, false)
}

func newTestEnvWithTokens(t *testing.T, duration uint64, sameToken bool) *testEnv {
	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	rt := runtime.New(state.New(kv), runtime.BlockContext{Number: 1, Time: genesisTime})
	auth := authority.Only(admin)
	stakeTok := token.New(thor.BytesToAddress([]byte("stake-token")), rt, auth)
	rewardTk := stakeTok
	if !sameToken {
		rewardTk = token.New(thor.BytesToAddress([]byte("reward-token")), rt, auth)
	}

	env := &testEnv{
		rt:       rt,
		staking:  New(stakingAddr, rt, auth, stakeTok, rewardTk),
		stakeTok: stakeTok,
		rewardTk: rewardTk,
	}
	if duration > 0 {
		require.NoError(t, env.staking.SetRewardsDuration(admin, duration))
	}
	supply := new(big.Int).Lsh(big.NewInt(1), 100)
	for _, acc := range []thor.Address{alice, bob, carol} {
		require.NoError(t, stakeTok.Mint(admin, acc, supply))
		require.NoError(t, stakeTok.Approve(acc, stakingAddr, supply))
		require.NoError(t, rt.State().SetBalance(acc, supply))
	}
	return env
}

func (e *testEnv) fundRewards(t *testing.T, amount *big.Int) {
	require.NoError(t, e.rewardTk.Mint(admin, stakingAddr, amount))
}

func (e *testEnv) setTime(t *testing.T, ts uint64) {
	require.NoError(t, e.rt.SetBlockContext(runtime.BlockContext{Number: e.rt.BlockNumber() + 1, Time: ts}))
}

func (e *testEnv) earned(t *testing.T, acc thor.Address) *big.Int {
	v, err := e.staking.Earned(acc)
	require.NoError(t, err)
	return v
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) At(ts uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.setTime(t, ts)
	})
}

func (st *TestSequence) Stake(addr thor.Address, tokenAmount, nativeValue int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.env.staking.Stake(addr, big.NewInt(tokenAmount), big.NewInt(nativeValue))
		if err != nil {
			t.Fatalf("failed to stake for %s: %v", addr, err)
		}
		t.Logf("staked token=%d native=%d for %s", tokenAmount, nativeValue, addr)
	})
}

func (st *TestSequence) Withdraw(addr thor.Address, tokenAmount, nativeAmount int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.env.staking.Withdraw(addr, big.NewInt(tokenAmount), big.NewInt(nativeAmount))
		if err != nil {
			t.Fatalf("failed to withdraw for %s: %v", addr, err)
		}
		t.Logf("withdrawn token=%d native=%d for %s", tokenAmount, nativeAmount, addr)
	})
}

func (st *TestSequence) Notify(amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.fundRewards(t, amount)
		if err := st.env.staking.NotifyRewardAmount(admin, amount); err != nil {
			t.Fatalf("failed to notify reward %s: %v", amount, err)
		}
		t.Logf("notified reward %s", amount)
	})
}

func (st *TestSequence) Claim(addr thor.Address, expected *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		before, err := st.env.rewardTk.BalanceOf(addr)
		require.NoError(t, err)
		if err := st.env.staking.GetReward(addr); err != nil {
			t.Fatalf("failed to claim for %s: %v", addr, err)
		}
		after, err := st.env.rewardTk.BalanceOf(addr)
		require.NoError(t, err)
		assert.Equal(t, expected.String(), new(big.Int).Sub(after, before).String(), "claimed by %s", addr)
	})
}

func (st *TestSequence) AssertEarned(addr thor.Address, expected *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.Equal(t, expected.String(), st.env.earned(t, addr).String(), "earned by %s", addr)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}
