// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/lvldb"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

func M(a ...any) []any {
	return a
}

func newRuntime(t *testing.T) *Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(state.New(db), BlockContext{Number: 1, Time: 1000})
}

var (
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func TestExecRevert(t *testing.T) {
	rt := newRuntime(t)
	require.NoError(t, rt.State().SetBalance(alice, big.NewInt(10)))

	fail := errors.New("fail")
	err := rt.Exec(func() error {
		require.NoError(t, rt.Transfer(alice, bob, big.NewInt(4)))
		rt.Emit(alice, "Sent", big.NewInt(4))
		return fail
	})
	assert.Equal(t, fail, err)
	assert.Equal(t, M(big.NewInt(10), nil), M(rt.State().GetBalance(alice)))
	assert.Equal(t, M(big.NewInt(0), nil), M(rt.State().GetBalance(bob)))
	assert.Empty(t, rt.Events())
}

func TestExecNested(t *testing.T) {
	rt := newRuntime(t)
	require.NoError(t, rt.State().SetBalance(alice, big.NewInt(10)))

	err := rt.Exec(func() error {
		require.NoError(t, rt.Transfer(alice, bob, big.NewInt(1)))
		inner := rt.Exec(func() error {
			require.NoError(t, rt.Transfer(alice, bob, big.NewInt(2)))
			return errors.New("inner")
		})
		assert.Error(t, inner)
		rt.Emit(bob, "Received")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, M(big.NewInt(9), nil), M(rt.State().GetBalance(alice)))
	assert.Equal(t, M(big.NewInt(1), nil), M(rt.State().GetBalance(bob)))
	assert.Len(t, rt.Events(), 1)
}

func TestTransferInsufficientBalance(t *testing.T) {
	rt := newRuntime(t)
	require.NoError(t, rt.State().SetBalance(alice, big.NewInt(1)))

	err := rt.Transfer(alice, bob, big.NewInt(2))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientBalance))
	assert.NoError(t, rt.Transfer(alice, bob, big.NewInt(0)))
	assert.NoError(t, rt.Transfer(alice, bob, nil))
}

func TestTransferHook(t *testing.T) {
	rt := newRuntime(t)
	require.NoError(t, rt.State().SetBalance(alice, big.NewInt(10)))

	var received []*big.Int
	rt.Register(bob, ReceiverFunc(func(_ *Runtime, from thor.Address, amount *big.Int) error {
		assert.Equal(t, alice, from)
		received = append(received, amount)
		if amount.Cmp(big.NewInt(5)) > 0 {
			return errors.New("too much")
		}
		return nil
	}))

	require.NoError(t, rt.Transfer(alice, bob, big.NewInt(3)))
	err := rt.Transfer(alice, bob, big.NewInt(6))
	assert.True(t, errors.Is(err, reverts.ErrTransferFailed))
	assert.True(t, reverts.Is(err, reverts.KindTransfer))

	assert.Len(t, received, 2)
	assert.Equal(t, M(big.NewInt(7), nil), M(rt.State().GetBalance(alice)))
	assert.Equal(t, M(big.NewInt(3), nil), M(rt.State().GetBalance(bob)))
}

func TestCallDepth(t *testing.T) {
	rt := newRuntime(t)
	var recurse func() error
	calls := 0
	recurse = func() error {
		calls++
		return rt.Exec(recurse)
	}
	err := rt.Exec(recurse)
	assert.True(t, errors.Is(err, ErrCallDepth))
	assert.Equal(t, maxCallDepth, calls)
}

func TestBlockContextAndCommit(t *testing.T) {
	rt := newRuntime(t)
	assert.Equal(t, uint64(1000), rt.BlockTime())
	assert.True(t, errors.Is(rt.SetBlockContext(BlockContext{Number: 2, Time: 999}), ErrTimeReversed))
	require.NoError(t, rt.SetBlockContext(BlockContext{Number: 2, Time: 1000}))
	assert.Equal(t, uint32(2), rt.BlockNumber())

	require.NoError(t, rt.State().SetBalance(alice, big.NewInt(1)))
	rt.Emit(alice, "Minted")
	events, err := rt.Commit()
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, uint32(2), events[0].BlockNumber)
	assert.Empty(t, rt.Events())

	err = rt.Exec(func() error {
		_, err := rt.Commit()
		return err
	})
	assert.Error(t, err)
}
