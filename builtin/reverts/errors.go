// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"math/big"

	"github.com/vechain/accrual/thor"
)

// splitter and fee channel codes
var (
	ErrZeroAddress        = newCoded(KindPrecondition, "123", "ZeroAddress()")
	ErrCapacityExceeded   = newCoded(KindPrecondition, "124", "CapacityExceeded(uint256)")
	ErrValidatorMismatch  = newCoded(KindPrecondition, "125", "ValidatorMismatch(address,uint256)")
	ErrNoShares           = newCoded(KindPrecondition, "126", "NoShares(address)")
	ErrDuplicateValidator = newCoded(KindPrecondition, "127", "DuplicateValidator(address)")
	ErrZeroShares         = newCoded(KindPrecondition, "128", "ZeroShares()")
	ErrAlreadyHasShares   = newCoded(KindPrecondition, "129", "AlreadyHasShares(address)")
	ErrNotDuePayment      = newCoded(KindPrecondition, "130", "NotDuePayment(address)")
)

// staking
var (
	ErrNoDepositMade                          = newRevert(KindPrecondition, "NoDepositMade(address)")
	ErrNoRewardToClaim                        = newRevert(KindPrecondition, "NoRewardToClaim(address)")
	ErrRewardRateEqualsZero                   = newRevert(KindPrecondition, "RewardRateEqualsZero()")
	ErrRewardAmountGreaterThanContractBalance = newRevert(KindPrecondition, "RewardAmountGreaterThanContractBalance(uint256,uint256)")
	ErrRewardDurationNotFinished              = newRevert(KindTimeGate, "RewardDurationNotFinished(uint256)")
	ErrCannotRecoverStakingOrRewardsTokens    = newRevert(KindPrecondition, "CannotRecoverStakingOrRewardsTokens(address)")
	ErrNoAmountToWithdraw                     = newRevert(KindPrecondition, "NoAmountToWithdraw(address)")
	ErrAmountUnavailableToWithdraw            = newRevert(KindPrecondition, "AmountUnavailableToWithdraw(address)")
)

// fees
var (
	ErrInsufficientFee      = newRevert(KindPrecondition, "InsufficientFee(uint256,uint256)")
	ErrFeeBelowMinimum      = newRevert(KindPrecondition, "FeeBelowMinimum(uint256,uint256)")
	ErrDistributionTooEarly = newRevert(KindTimeGate, "DistributionTooEarly(uint256)")
	ErrInvalidOraclePrice   = newRevert(KindPrecondition, "InvalidOraclePrice()")
)

// shared
var (
	ErrUnauthorized          = newRevert(KindAuthorization, "Unauthorized(address,string)")
	ErrTransferFailed        = newRevert(KindTransfer, "TransferFailed(address,uint256)")
	ErrReentrantCall         = newRevert(KindReentrancy, "ReentrantCall()")
	ErrInsufficientBalance   = newRevert(KindPrecondition, "InsufficientBalance(address,uint256,uint256)")
	ErrInsufficientAllowance = newRevert(KindPrecondition, "InsufficientAllowance(address,address,uint256,uint256)")
	ErrArithmetic            = newRevert(KindArithmetic, "Arithmetic(string)")
)

func ZeroAddress() error {
	return ErrZeroAddress.with()
}

func CapacityExceeded(max uint64) error {
	return ErrCapacityExceeded.with(max)
}

func NoShares(a thor.Address) error {
	return ErrNoShares.with(a)
}

func DuplicateValidator(a thor.Address) error {
	return ErrDuplicateValidator.with(a)
}

func ZeroShares() error {
	return ErrZeroShares.with()
}

func AlreadyHasShares(a thor.Address) error {
	return ErrAlreadyHasShares.with(a)
}

func NotDuePayment(a thor.Address) error {
	return ErrNotDuePayment.with(a)
}

func ValidatorMismatch(a thor.Address, index uint64) error {
	return ErrValidatorMismatch.with(a, index)
}

func NoDepositMade(a thor.Address) error {
	return ErrNoDepositMade.with(a)
}

func NoRewardToClaim(a thor.Address) error {
	return ErrNoRewardToClaim.with(a)
}

func RewardRateEqualsZero() error {
	return ErrRewardRateEqualsZero.with()
}

func RewardAmountGreaterThanContractBalance(amount, balance *big.Int) error {
	return ErrRewardAmountGreaterThanContractBalance.with(amount, balance)
}

func RewardDurationNotFinished(finishAt uint64) error {
	return ErrRewardDurationNotFinished.with(finishAt)
}

func CannotRecoverStakingOrRewardsTokens(token thor.Address) error {
	return ErrCannotRecoverStakingOrRewardsTokens.with(token)
}

func NoAmountToWithdraw(a thor.Address) error {
	return ErrNoAmountToWithdraw.with(a)
}

func AmountUnavailableToWithdraw(a thor.Address) error {
	return ErrAmountUnavailableToWithdraw.with(a)
}

func InsufficientFee(required, paid *big.Int) error {
	return ErrInsufficientFee.with(required, paid)
}

func FeeBelowMinimum(fee, min *big.Int) error {
	return ErrFeeBelowMinimum.with(fee, min)
}

func DistributionTooEarly(next uint64) error {
	return ErrDistributionTooEarly.with(next)
}

func InvalidOraclePrice() error {
	return ErrInvalidOraclePrice.with()
}

func Unauthorized(caller thor.Address, action string) error {
	return ErrUnauthorized.with(caller, action)
}

func TransferFailed(to thor.Address, amount *big.Int) error {
	return ErrTransferFailed.with(to, amount)
}

func ReentrantCall() error {
	return ErrReentrantCall.with()
}

func InsufficientBalance(owner thor.Address, have, want *big.Int) error {
	return ErrInsufficientBalance.with(owner, have, want)
}

func InsufficientAllowance(owner, spender thor.Address, have, want *big.Int) error {
	return ErrInsufficientAllowance.with(owner, spender, have, want)
}

func Arithmetic(op string) error {
	return ErrArithmetic.with(op)
}
