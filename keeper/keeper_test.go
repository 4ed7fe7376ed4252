// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package keeper

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/test/datagen"
	"github.com/vechain/accrual/test/testengine"
	"github.com/vechain/accrual/thor"
)

var (
	channel = thor.NamedAddress("channel")
	caller  = thor.NamedAddress("keeper")
)

// setup collects one fee of half an ether for a single channel.
func setup(t *testing.T) (*testengine.Env, *clockwork.FakeClock) {
	env, err := testengine.New()
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })

	_, err = env.Advance(10, func(e *engine.Engine) error {
		if err := e.Oracle.Update(testengine.Admin, datagen.Ether(2), e.Runtime().BlockTime()); err != nil {
			return err
		}
		if err := e.Fees.SetRequiredFeeUSD(testengine.Admin, datagen.Ether(1)); err != nil {
			return err
		}
		if err := e.Fees.AddChannel(testengine.Admin, channel, 1); err != nil {
			return err
		}
		_, err := e.Fees.PayFee(testengine.DevAccounts[0], datagen.Ether(1))
		return err
	})
	require.NoError(t, err)
	return env, clockwork.NewFakeClockAt(time.Unix(int64(env.Block().Time), 0))
}

func half() *big.Int {
	return new(big.Int).Rsh(datagen.Ether(1), 1)
}

func balance(t *testing.T, env *testengine.Env, addr thor.Address) *big.Int {
	var b *big.Int
	require.NoError(t, env.View(func(e *engine.Engine) (err error) {
		b, err = e.Runtime().State().GetBalance(addr)
		return
	}))
	return b
}

func TestTick(t *testing.T) {
	env, clock := setup(t)
	k := New(env.Engine, Options{Caller: caller, Interval: time.Minute, Clock: clock})

	paid, err := k.Tick()
	require.NoError(t, err)
	assert.Equal(t, half(), paid)
	assert.Equal(t, half(), balance(t, env, channel))

	// not due until a full interval later
	blk := env.Block()
	clock.Advance(time.Hour)
	paid, err = k.Tick()
	require.NoError(t, err)
	assert.Nil(t, paid)
	assert.Equal(t, blk, env.Block())

	clock.Advance(time.Duration(thor.DefaultDistributionInterval) * time.Second)
	paid, err = k.Tick()
	require.NoError(t, err)
	assert.Equal(t, 0, paid.Sign())
	assert.Equal(t, blk.Number+1, env.Block().Number)
}

func TestTickClockBehindBlock(t *testing.T) {
	env, _ := setup(t)
	clock := clockwork.NewFakeClockAt(time.Unix(0, 0))
	k := New(env.Engine, Options{Caller: caller, Clock: clock})

	blk := env.Block()
	_, err := k.Tick()
	require.NoError(t, err)
	assert.Equal(t, blk.Time, env.Block().Time)
}

func TestTickFailure(t *testing.T) {
	env, clock := setup(t)
	env.Runtime().Register(channel, runtime.ReceiverFunc(func(*runtime.Runtime, thor.Address, *big.Int) error {
		return errors.New("rejected")
	}))
	k := New(env.Engine, Options{Caller: caller, Clock: clock})

	_, err := k.Tick()
	assert.Error(t, err)
	assert.Equal(t, 0, balance(t, env, channel).Sign())

	var last uint64
	require.NoError(t, env.View(func(e *engine.Engine) (err error) {
		last, err = e.Fees.LastDistributionTime()
		return
	}))
	assert.Equal(t, uint64(0), last)
}

func TestRun(t *testing.T) {
	env, clock := setup(t)
	k := New(env.Engine, Options{Caller: caller, Interval: time.Minute, Clock: clock})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		k.Run(ctx)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	assert.Eventually(t, func() bool {
		return balance(t, env, channel).Cmp(half()) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
