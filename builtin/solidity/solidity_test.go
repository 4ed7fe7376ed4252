// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/lvldb"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/test/datagen"
	"github.com/vechain/accrual/thor"
)

func M(a ...any) []any {
	return a
}

type TestStruct struct {
	Field1 uint64
	Field2 *big.Int
	Addr1  thor.Address
	Bytes1 thor.Bytes32
}

// newTestContext returns a fresh Context with in-memory DB.
func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func maxUint256() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, thor.Bytes32{1})

	assert.Equal(t, M(big.NewInt(0), nil), M(u.Get()))
	require.NoError(t, u.Set(big.NewInt(10)))
	require.NoError(t, u.Add(big.NewInt(5)))
	require.NoError(t, u.Sub(big.NewInt(3)))
	assert.Equal(t, M(big.NewInt(12), nil), M(u.Get()))

	err := u.Sub(big.NewInt(13))
	assert.True(t, reverts.Is(err, reverts.KindArithmetic))
	assert.Equal(t, M(big.NewInt(12), nil), M(u.Get()))

	require.NoError(t, u.Set(maxUint256()))
	assert.True(t, reverts.Is(u.Add(big.NewInt(1)), reverts.KindArithmetic))
	assert.True(t, reverts.Is(u.Set(big.NewInt(-1)), reverts.KindArithmetic))
}

func TestUint64AndBool(t *testing.T) {
	ctx := newTestContext(t)

	ts := NewUint64(ctx, Slot("ns", "time"))
	assert.Equal(t, M(uint64(0), nil), M(ts.Get()))
	ts.Set(1700000000)
	assert.Equal(t, M(uint64(1700000000), nil), M(ts.Get()))

	b := NewBool(ctx, Slot("ns", "flag"))
	assert.Equal(t, M(false, nil), M(b.Get()))
	b.Set(true)
	assert.Equal(t, M(true, nil), M(b.Get()))
	b.Set(false)
	assert.Equal(t, M(false, nil), M(b.Get()))
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, thor.Bytes32{2})
	assert.Equal(t, M(thor.Address{}, nil), M(a.Get()))

	addr := datagen.RandAddress()
	a.Set(&addr)
	assert.Equal(t, M(addr, nil), M(a.Get()))
	a.Set(nil)
	assert.Equal(t, M(thor.Address{}, nil), M(a.Get()))
}

func TestSlotNamespaces(t *testing.T) {
	assert.Equal(t, thor.BytesToBytes32([]byte("total")), Slot("", "total"))
	assert.NotEqual(t, Slot("a", "total"), Slot("b", "total"))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{3})

	key := datagen.RandAddress()
	empty, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Equal(t, uint64(0), empty.Field1)

	value := &TestStruct{Field1: 100, Field2: big.NewInt(200), Addr1: datagen.RandAddress(), Bytes1: datagen.RandomHash()}
	require.NoError(t, m.Set(key, value))
	assert.Equal(t, M(value, nil), M(m.Get(key)))

	other := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{4})
	got, err := other.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestRaw(t *testing.T) {
	ctx := newTestContext(t)
	r := NewRaw[[]thor.Address](ctx, thor.Bytes32{5})

	assert.Equal(t, M([]thor.Address(nil), nil), M(r.Get()))
	list := []thor.Address{{1}, {2}, {3}}
	require.NoError(t, r.Upsert(list))
	assert.Equal(t, M(list, nil), M(r.Get()))
	r.Clear()
	assert.Equal(t, M([]thor.Address(nil), nil), M(r.Get()))
}

func TestMath(t *testing.T) {
	assert.Equal(t, M(big.NewInt(5), nil), M(Add256(big.NewInt(2), big.NewInt(3))))
	assert.Equal(t, M(big.NewInt(1), nil), M(Sub256(big.NewInt(3), big.NewInt(2))))
	assert.Equal(t, M(big.NewInt(6), nil), M(Mul256(big.NewInt(2), big.NewInt(3))))
	assert.Equal(t, M(big.NewInt(2), nil), M(Div256(big.NewInt(7), big.NewInt(3))))
	assert.Equal(t, M(big.NewInt(4), nil), M(MulDiv(big.NewInt(7), big.NewInt(2), big.NewInt(3))))

	for _, err := range []error{
		second(Add256(maxUint256(), big.NewInt(1))),
		second(Sub256(big.NewInt(1), big.NewInt(2))),
		second(Mul256(maxUint256(), big.NewInt(2))),
		second(Div256(big.NewInt(1), big.NewInt(0))),
		second(Add256(big.NewInt(-1), big.NewInt(1))),
	} {
		assert.True(t, errors.Is(err, reverts.ErrArithmetic), err)
	}
	assert.Equal(t, uint64(3), Min(3, 4))
	assert.Equal(t, uint64(3), Min(4, 3))
}

func second(_ *big.Int, err error) error {
	return err
}

func TestGuard(t *testing.T) {
	ctx := newTestContext(t)
	g := NewGuard(ctx, Slot("ns", "guard"))

	var inner error
	err := g.Run(func() error {
		inner = g.Run(func() error { return nil })
		return nil
	})
	require.NoError(t, err)
	assert.True(t, errors.Is(inner, reverts.ErrReentrantCall))

	// released after the outer run
	assert.NoError(t, g.Run(func() error { return nil }))
}

func TestConfigVariable(t *testing.T) {
	ctx := newTestContext(t)
	cv := NewConfigVariable("fee-epoch-length", big.NewInt(86400))

	assert.Equal(t, "fee-epoch-length", cv.Name())
	assert.Equal(t, M(big.NewInt(86400), nil), M(cv.Get(ctx)))
	require.NoError(t, cv.Override(ctx, big.NewInt(3600)))
	assert.Equal(t, uint64(3600), cv.Uint64(ctx))
	require.NoError(t, cv.Override(ctx, big.NewInt(0)))
	assert.Equal(t, uint64(86400), cv.Uint64(ctx))
}
