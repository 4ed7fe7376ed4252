// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package application

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/builtin/appfee"
	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/oracle"
	"github.com/vechain/accrual/builtin/reverts"
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
	dev   = thor.BytesToAddress([]byte("dev"))

	feeAddr = thor.BytesToAddress([]byte("appfee"))
	appAddr = thor.BytesToAddress([]byte("app"))
)

// newRuntime returns a fee manager charging 1 coin per call.
func newRuntime(t *testing.T) (*runtime.Runtime, *appfee.Manager) {
	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	rt := runtime.New(state.New(kv), runtime.BlockContext{Number: 1, Time: 1000})
	feed := oracle.Func(func() (*big.Int, error) { return datagen.Ether(1), nil })
	fees := appfee.New(feeAddr, rt, authority.Only(admin), feed)
	require.NoError(t, fees.SetRequiredFeeUSD(admin, datagen.Ether(1)))
	require.NoError(t, rt.State().SetBalance(alice, datagen.Ether(10)))
	return rt, fees
}

func balance(t *testing.T, rt *runtime.Runtime, addr thor.Address) *big.Int {
	bal, err := rt.State().GetBalance(addr)
	require.NoError(t, err)
	return bal
}

func TestNativeCall(t *testing.T) {
	rt, fees := newRuntime(t)
	app := NewNative(appAddr, rt, fees)

	_, err := app.Call(alice, big.NewInt(1))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientFee))
	assert.Equal(t, datagen.Ether(10), balance(t, rt, alice))

	receipt, err := app.Call(alice, datagen.Ether(3))
	require.NoError(t, err)
	assert.Equal(t, &Receipt{NetworkFee: datagen.Ether(1), DeveloperFee: new(big.Int), Refund: datagen.Ether(2)}, receipt)
	assert.Equal(t, datagen.Ether(9), balance(t, rt, alice))
	assert.Equal(t, datagen.Ether(1), balance(t, rt, feeAddr))
	assert.Equal(t, 0, balance(t, rt, appAddr).Sign())
	assert.Equal(t, M(uint64(1), nil), M(app.Calls()))
}

func TestNativeCallRefundFailure(t *testing.T) {
	rt, fees := newRuntime(t)
	app := NewNative(appAddr, rt, fees)
	rt.Register(alice, runtime.ReceiverFunc(func(*runtime.Runtime, thor.Address, *big.Int) error {
		return errors.New("no refunds")
	}))

	_, err := app.Call(alice, datagen.Ether(2))
	assert.True(t, errors.Is(err, reverts.ErrTransferFailed))
	assert.Equal(t, datagen.Ether(10), balance(t, rt, alice))
	assert.Equal(t, 0, balance(t, rt, feeAddr).Sign())
	assert.Equal(t, M(uint64(0), nil), M(app.Calls()))

	// exact payment needs no refund
	_, err = app.Call(alice, datagen.Ether(1))
	assert.NoError(t, err)
}

func TestDevelopedCall(t *testing.T) {
	rt, fees := newRuntime(t)
	app := NewDeveloped(appAddr, rt, authority.Only(admin), fees)
	require.NoError(t, fees.SetMinFee(admin, datagen.Ether(1)))

	assert.True(t, reverts.Is(app.SetDeveloper(alice, dev, datagen.Ether(2)), reverts.KindAuthorization))
	assert.True(t, errors.Is(app.SetDeveloper(admin, thor.Address{}, datagen.Ether(2)), reverts.ErrZeroAddress))
	assert.True(t, errors.Is(app.SetDeveloper(admin, dev, big.NewInt(1)), reverts.ErrFeeBelowMinimum))
	require.NoError(t, app.SetDeveloper(admin, dev, datagen.Ether(2)))
	assert.Equal(t, M(dev, nil), M(app.Developer()))
	assert.Equal(t, M(datagen.Ether(2), nil), M(app.DeveloperFee()))

	_, err := app.Call(alice, datagen.Ether(2))
	require.Error(t, err)
	assert.Equal(t, []any{datagen.Ether(3), datagen.Ether(2)}, err.(*reverts.ErrRevert).Args())

	receipt, err := app.Call(alice, datagen.Ether(5))
	require.NoError(t, err)
	assert.Equal(t, &Receipt{NetworkFee: datagen.Ether(1), DeveloperFee: datagen.Ether(2), Refund: datagen.Ether(2)}, receipt)
	assert.Equal(t, datagen.Ether(7), balance(t, rt, alice))
	assert.Equal(t, datagen.Ether(2), balance(t, rt, dev))
	assert.Equal(t, datagen.Ether(1), balance(t, rt, feeAddr))
}

func TestDevelopedCallWithoutDeveloper(t *testing.T) {
	rt, fees := newRuntime(t)
	app := NewDeveloped(appAddr, rt, authority.Only(admin), fees)

	receipt, err := app.Call(alice, datagen.Ether(1))
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.DeveloperFee.Sign())
	assert.Equal(t, 0, receipt.Refund.Sign())
}

func TestReentrantCall(t *testing.T) {
	rt, fees := newRuntime(t)
	app := NewNative(appAddr, rt, fees)

	var innerErr error
	rt.Register(alice, runtime.ReceiverFunc(func(*runtime.Runtime, thor.Address, *big.Int) error {
		_, innerErr = app.Call(alice, datagen.Ether(1))
		return nil
	}))
	_, err := app.Call(alice, datagen.Ether(2))
	require.NoError(t, err)
	assert.True(t, errors.Is(innerErr, reverts.ErrReentrantCall))
	assert.Equal(t, datagen.Ether(9), balance(t, rt, alice))
}
