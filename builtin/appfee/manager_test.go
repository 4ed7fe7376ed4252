// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package appfee

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/oracle"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/splitter"
	"github.com/vechain/accrual/lvldb"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/test/datagen"
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

	feeAddr = thor.BytesToAddress([]byte("appfee"))
)

const genesisTime = 1000

type testEnv struct {
	t     *testing.T
	rt    *runtime.Runtime
	mgr   *Manager
	price *big.Int
}

// newTestEnv prices the fee at 1 USD with the coin at 2 USD.
func newTestEnv(t *testing.T) *testEnv {
	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	env := &testEnv{t: t, price: datagen.Ether(2)}
	env.rt = runtime.New(state.New(kv), runtime.BlockContext{Number: 1, Time: genesisTime})
	feed := oracle.Func(func() (*big.Int, error) { return new(big.Int).Set(env.price), nil })
	env.mgr = New(feeAddr, env.rt, authority.Only(admin), feed)

	require.NoError(t, env.mgr.SetRequiredFeeUSD(admin, datagen.Ether(1)))
	for _, acc := range []thor.Address{alice, bob, carol} {
		require.NoError(t, env.rt.State().SetBalance(acc, datagen.Ether(100)))
	}
	return env
}

func (e *testEnv) setTime(ts uint64) {
	require.NoError(e.t, e.rt.SetBlockContext(runtime.BlockContext{Number: e.rt.BlockNumber() + 1, Time: ts}))
}

func (e *testEnv) balance(addr thor.Address) *big.Int {
	bal, err := e.rt.State().GetBalance(addr)
	require.NoError(e.t, err)
	return bal
}

// milli returns n/1000 ether.
func milli(n int64) *big.Int {
	return new(big.Int).Div(datagen.Ether(n), big.NewInt(1000))
}

func TestGetFeeCachedWithinEpoch(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, M(new(big.Int), nil), M(env.mgr.ViewFee()))
	assert.Equal(t, M(milli(500), nil), M(env.mgr.GetFee()))
	assert.Equal(t, M(uint64(1), nil), M(env.mgr.Epoch()))
	assert.Equal(t, M(uint64(genesisTime+thor.DefaultFeeEpochLength), nil), M(env.mgr.NextResetTime()))

	env.price = datagen.Ether(4)
	env.setTime(genesisTime + thor.DefaultFeeEpochLength - 1)
	assert.Equal(t, M(milli(500), nil), M(env.mgr.GetFee()))
	assert.Equal(t, M(milli(500), nil), M(env.mgr.GetFee()))
	assert.Equal(t, M(uint64(1), nil), M(env.mgr.Epoch()))

	now := uint64(genesisTime + thor.DefaultFeeEpochLength)
	env.setTime(now)
	assert.Equal(t, M(milli(250), nil), M(env.mgr.GetFee()))
	assert.Equal(t, M(milli(250), nil), M(env.mgr.ViewFee()))
	assert.Equal(t, M(milli(500), nil), M(env.mgr.PriorFee()))
	assert.Equal(t, M(uint64(2), nil), M(env.mgr.Epoch()))
	assert.Equal(t, M(now, nil), M(env.mgr.LastResetTime()))
	assert.Equal(t, M(now+thor.DefaultFeeEpochLength, nil), M(env.mgr.NextResetTime()))
}

func TestResetFeeMatchesExpiry(t *testing.T) {
	waited, forced := newTestEnv(t), newTestEnv(t)
	for _, env := range []*testEnv{waited, forced} {
		_, err := env.mgr.GetFee()
		require.NoError(t, err)
		env.price = datagen.Ether(5)
	}

	waited.setTime(genesisTime + thor.DefaultFeeEpochLength)
	forced.setTime(genesisTime + thor.DefaultFeeEpochLength)
	wantFee, err := waited.mgr.GetFee()
	require.NoError(t, err)

	_, err = forced.mgr.ResetFee(alice)
	assert.True(t, reverts.Is(err, reverts.KindAuthorization))
	assert.Equal(t, M(wantFee, nil), M(forced.mgr.ForceFee(admin)))

	assert.Equal(t, M(waited.mgr.ViewFee()), M(forced.mgr.ViewFee()))
	assert.Equal(t, M(waited.mgr.PriorFee()), M(forced.mgr.PriorFee()))
	assert.Equal(t, M(waited.mgr.Epoch()), M(forced.mgr.Epoch()))
	assert.Equal(t, M(waited.mgr.NextResetTime()), M(forced.mgr.NextResetTime()))
}

func TestInvalidOraclePrice(t *testing.T) {
	env := newTestEnv(t)
	env.price = new(big.Int)

	_, err := env.mgr.GetFee()
	assert.True(t, errors.Is(err, reverts.ErrInvalidOraclePrice))
	assert.Equal(t, M(uint64(0), nil), M(env.mgr.Epoch()))

	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	defer kv.Close()
	st := state.New(kv)
	rt := runtime.New(st, runtime.BlockContext{Time: genesisTime})
	stored := oracle.NewStored(thor.BytesToAddress([]byte("oracle")), st, authority.Only(admin))
	mgr := New(feeAddr, rt, authority.Only(admin), stored)
	_, err = mgr.GetFee()
	assert.True(t, errors.Is(err, reverts.ErrInvalidOraclePrice))

	require.NoError(t, stored.Update(admin, datagen.Ether(1), genesisTime))
	require.NoError(t, mgr.SetRequiredFeeUSD(admin, datagen.Ether(3)))
	assert.Equal(t, M(datagen.Ether(3), nil), M(mgr.GetFee()))
}

func TestPayFee(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.mgr.PayFee(alice, milli(499))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientFee))
	assert.Equal(t, datagen.Ether(100), env.balance(alice))

	assert.Equal(t, M(milli(500), nil), M(env.mgr.PayFee(alice, datagen.Ether(3))))
	assert.Equal(t, new(big.Int).Sub(datagen.Ether(100), milli(500)), env.balance(alice))
	assert.Equal(t, milli(500), env.balance(feeAddr))
	assert.Equal(t, M(milli(500), nil), M(env.mgr.channels.TotalReceived()))
}

func TestPriorFeeWithinGrace(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.mgr.PayFee(alice, milli(500))
	require.NoError(t, err)
	_, err = env.mgr.PayFee(carol, milli(500))
	require.NoError(t, err)

	env.price = datagen.Ether(1)
	reset := uint64(genesisTime + thor.DefaultFeeEpochLength)
	env.setTime(reset)

	assert.Equal(t, M(milli(500), nil), M(env.mgr.FeeForPayer(alice)))
	assert.Equal(t, M(datagen.Ether(1), nil), M(env.mgr.FeeForPayer(bob)))
	assert.Equal(t, M(uint64(2), nil), M(env.mgr.Epoch()))

	assert.Equal(t, M(milli(500), nil), M(env.mgr.PayFee(alice, milli(500))))
	// the grace price is used once per epoch
	assert.Equal(t, M(datagen.Ether(1), nil), M(env.mgr.FeeForPayer(alice)))
	_, err = env.mgr.PayFee(bob, milli(500))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientFee))

	env.setTime(reset + thor.DefaultFeeGraceLength)
	assert.Equal(t, M(datagen.Ether(1), nil), M(env.mgr.FeeForPayer(carol)))
}

func TestChannels(t *testing.T) {
	env := newTestEnv(t)
	chans := datagen.RandAddresses(6)

	assert.True(t, reverts.Is(env.mgr.AddChannel(alice, chans[0], 1), reverts.KindAuthorization))
	for _, c := range chans[:5] {
		require.NoError(t, env.mgr.AddChannel(admin, c, 1))
	}
	assert.Equal(t, "124", reverts.Code(env.mgr.AddChannel(admin, chans[5], 1)))
	assert.Equal(t, "127", reverts.Code(env.mgr.AddChannel(admin, chans[0], 1)))

	assert.Equal(t, "129", reverts.Code(env.mgr.AdjustChannel(admin, 0, chans[1], 2)))
	assert.Equal(t, "125", reverts.Code(env.mgr.AdjustChannel(admin, 5, chans[5], 2)))
	assert.Equal(t, "128", reverts.Code(env.mgr.AdjustChannel(admin, 0, chans[5], 0)))
	assert.True(t, reverts.Is(env.mgr.AdjustChannel(alice, 0, chans[5], 2), reverts.KindAuthorization))

	require.NoError(t, env.mgr.AdjustChannel(admin, 0, chans[5], 2))
	require.NoError(t, env.mgr.RemoveChannel(admin, chans[1], 1))

	want := []splitter.Payee{{Address: chans[5], Shares: 2}, {Address: chans[2], Shares: 1}, {Address: chans[3], Shares: 1}, {Address: chans[4], Shares: 1}}
	assert.Equal(t, M(want, nil), M(env.mgr.Channels()))
	require.NoError(t, env.mgr.AddChannel(admin, chans[0], 1))
}

func TestDistributeFeesToChannels(t *testing.T) {
	env := newTestEnv(t)
	c1, c2 := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, env.mgr.AddChannel(admin, c1, 1))
	require.NoError(t, env.mgr.AddChannel(admin, c2, 3))
	for _, acc := range []thor.Address{alice, bob} {
		_, err := env.mgr.PayFee(acc, milli(500))
		require.NoError(t, err)
	}
	assert.Equal(t, M(milli(250), nil), M(env.mgr.ChannelReleasable(c1)))

	_, err := env.mgr.CollectFee(alice)
	assert.True(t, errors.Is(err, reverts.ErrDistributionTooEarly))
	assert.True(t, reverts.Is(err, reverts.KindTimeGate))

	assert.Equal(t, M(datagen.Ether(1), nil), M(env.mgr.DistributeFeesToChannels(admin)))
	assert.Equal(t, milli(250), env.balance(c1))
	assert.Equal(t, milli(750), env.balance(c2))
	assert.Equal(t, 0, env.balance(feeAddr).Sign())
	assert.Equal(t, M(uint64(genesisTime), nil), M(env.mgr.LastDistributionTime()))
	assert.Equal(t, M(uint64(env.rt.BlockNumber()), nil), M(env.mgr.LastDistributionBlock()))

	_, err = env.mgr.PayFee(carol, milli(500))
	require.NoError(t, err)
	env.setTime(genesisTime + thor.DefaultDistributionInterval - 1)
	_, err = env.mgr.DistributeFeesToChannels(alice)
	assert.True(t, errors.Is(err, reverts.ErrDistributionTooEarly))

	env.setTime(genesisTime + thor.DefaultDistributionInterval)
	assert.Equal(t, M(milli(500), nil), M(env.mgr.DistributeFeesToChannels(alice)))
	assert.Equal(t, new(big.Int).Add(milli(250), milli(125)), env.balance(c1))
}

func TestFeesCollectedBeforeFirstChannel(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.mgr.PayFee(alice, milli(500))
	require.NoError(t, err)

	c1 := datagen.RandAddress()
	require.NoError(t, env.mgr.AddChannel(admin, c1, 1))
	assert.Equal(t, M(milli(500), nil), M(env.mgr.ChannelReleasable(c1)))
	assert.Equal(t, M(milli(500), nil), M(env.mgr.DistributeFeesToChannels(admin)))
	assert.Equal(t, milli(500), env.balance(c1))
}

func TestDistributeRevertsOnFailedChannel(t *testing.T) {
	env := newTestEnv(t)
	c1 := datagen.RandAddress()
	require.NoError(t, env.mgr.AddChannel(admin, c1, 1))
	_, err := env.mgr.PayFee(alice, milli(500))
	require.NoError(t, err)
	env.rt.Register(c1, runtime.ReceiverFunc(func(*runtime.Runtime, thor.Address, *big.Int) error {
		return errors.New("no receive")
	}))

	_, err = env.mgr.DistributeFeesToChannels(admin)
	assert.True(t, errors.Is(err, reverts.ErrTransferFailed))
	assert.Equal(t, M(uint64(0), nil), M(env.mgr.LastDistributionTime()))
	assert.Equal(t, milli(500), env.balance(feeAddr))
}

func TestSettersAndDeveloperFee(t *testing.T) {
	env := newTestEnv(t)

	assert.True(t, reverts.Is(env.mgr.SetEpochLength(alice, 10), reverts.KindAuthorization))
	assert.True(t, reverts.Is(env.mgr.SetMinFee(alice, milli(1)), reverts.KindAuthorization))

	require.NoError(t, env.mgr.SetEpochLength(admin, 10))
	require.NoError(t, env.mgr.SetGraceLength(admin, 5))
	assert.Equal(t, uint64(10), env.mgr.EpochLength())
	assert.Equal(t, uint64(5), env.mgr.GraceLength())
	_, err := env.mgr.GetFee()
	require.NoError(t, err)
	assert.Equal(t, M(uint64(genesisTime+10), nil), M(env.mgr.NextResetTime()))

	require.NoError(t, env.mgr.SetEpochLength(admin, 0))
	assert.Equal(t, thor.DefaultFeeEpochLength, env.mgr.EpochLength())

	require.NoError(t, env.mgr.SetDistributionInterval(admin, 60))
	assert.Equal(t, M(uint64(60), nil), M(env.mgr.NextDistributionTime()))

	require.NoError(t, env.mgr.SetMinFee(admin, milli(10)))
	assert.Equal(t, M(milli(10), nil), M(env.mgr.MinFee()))
	assert.NoError(t, env.mgr.ValidateDeveloperFee(milli(10)))
	err = env.mgr.ValidateDeveloperFee(milli(9))
	assert.True(t, errors.Is(err, reverts.ErrFeeBelowMinimum))
	assert.True(t, errors.Is(env.mgr.ValidateDeveloperFee(nil), reverts.ErrFeeBelowMinimum))
}
