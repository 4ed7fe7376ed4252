// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/accrual/thor"
)

func TestIdentity(t *testing.T) {
	addr := thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")

	err := NoDepositMade(addr)
	assert.True(t, errors.Is(err, ErrNoDepositMade))
	assert.False(t, errors.Is(err, ErrNoRewardToClaim))
	assert.True(t, IsRevertErr(err))
	assert.True(t, Is(err, KindPrecondition))
	assert.Equal(t, "NoDepositMade(0x7567d83b7b8d80addcb281a71d54fc7b3364ffed)", err.Error())

	wrapped := pkgerrors.Wrap(err, "stake")
	assert.True(t, errors.Is(wrapped, ErrNoDepositMade))
	assert.True(t, IsRevertErr(wrapped))

	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("string"))
	assert.False(t, IsRevertErr(errors.New("plain")))
}

func TestCodes(t *testing.T) {
	cases := []struct {
		err  error
		code string
		kind Kind
	}{
		{ZeroAddress(), "123", KindPrecondition},
		{CapacityExceeded(5), "124", KindPrecondition},
		{ValidatorMismatch(thor.Address{1}, 2), "125", KindPrecondition},
		{NoShares(thor.Address{1}), "126", KindPrecondition},
		{DuplicateValidator(thor.Address{1}), "127", KindPrecondition},
		{ZeroShares(), "128", KindPrecondition},
		{AlreadyHasShares(thor.Address{1}), "129", KindPrecondition},
		{NotDuePayment(thor.Address{1}), "130", KindPrecondition},
		{RewardDurationNotFinished(10), "", KindTimeGate},
		{TransferFailed(thor.Address{1}, big.NewInt(1)), "", KindTransfer},
		{Unauthorized(thor.Address{1}, "fee.reset"), "", KindAuthorization},
		{Arithmetic("add"), "", KindArithmetic},
		{ReentrantCall(), "", KindReentrancy},
	}
	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			assert.Equal(t, c.code, Code(c.err))
			assert.True(t, Is(c.err, c.kind))
		})
	}
	assert.Equal(t, "", Code(errors.New("plain")))
}

func TestBytes(t *testing.T) {
	data := ZeroAddress().(*ErrRevert).Bytes()
	assert.Equal(t, "08c379a0", hex.EncodeToString(data[:4]))
	assert.Len(t, data, 4+32+32+32)
	assert.Equal(t, byte(3), data[4+32+31])
	assert.Equal(t, "123", string(data[4+64:4+64+3]))

	amount := big.NewInt(0x1234)
	data = RewardAmountGreaterThanContractBalance(amount, big.NewInt(1)).(*ErrRevert).Bytes()
	assert.Len(t, data, 4+64)
	sel := thor.Keccak256([]byte("RewardAmountGreaterThanContractBalance(uint256,uint256)"))
	assert.Equal(t, sel[:4], data[:4])
	assert.Equal(t, amount, new(big.Int).SetBytes(data[4:36]))

	var nilErr *ErrRevert
	assert.Nil(t, nilErr.Bytes())
}
