// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/lvldb"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

func M(a ...any) []any {
	return a
}

func TestStored(t *testing.T) {
	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	defer kv.Close()

	updater := thor.BytesToAddress([]byte("updater"))
	o := NewStored(thor.BytesToAddress([]byte("oracle")), state.New(kv), authority.Only(updater))

	_, err = o.Consult()
	assert.True(t, errors.Is(err, reverts.ErrInvalidOraclePrice))

	assert.True(t, errors.Is(o.Update(thor.Address{9}, big.NewInt(1), 10), reverts.ErrUnauthorized))
	assert.True(t, errors.Is(o.Update(updater, big.NewInt(0), 10), reverts.ErrInvalidOraclePrice))

	price := big.NewInt(25000000000000000) // 0.025 USD
	require.NoError(t, o.Update(updater, price, 10))
	assert.Equal(t, M(price, nil), M(o.Consult()))
	assert.Equal(t, M(uint64(10), nil), M(o.UpdatedAt()))
}

func TestFunc(t *testing.T) {
	var o Oracle = Func(func() (*big.Int, error) { return big.NewInt(2), nil })
	assert.Equal(t, M(big.NewInt(2), nil), M(o.Consult()))
}
