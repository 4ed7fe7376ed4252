// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/builtin/token"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/thor"
)

var (
	logger = log.WithContext("pkg", "staking")

	// RewardsDuration is the length of a reward period in seconds.
	RewardsDuration = solidity.NewConfigVariable("staking-rewards-duration", new(big.Int).SetUint64(thor.DefaultRewardsDuration))
)

// Staking streams a reward pool linearly over a period to stakers of a token and of native value.
type Staking struct {
	addr         thor.Address
	rt           *runtime.Runtime
	ctx          *solidity.Context
	auth         authority.Authorizer
	stakingToken token.ERC20
	rewardsToken token.ERC20
	storage      *storage
	guard        *solidity.Guard
}

// New create a new instance.
func New(addr thor.Address, rt *runtime.Runtime, auth authority.Authorizer, stakingToken, rewardsToken token.ERC20) *Staking {
	ctx := solidity.NewContext(addr, rt.State())
	return &Staking{
		addr:         addr,
		rt:           rt,
		ctx:          ctx,
		auth:         auth,
		stakingToken: stakingToken,
		rewardsToken: rewardsToken,
		storage:      newStorage(ctx),
		guard:        solidity.NewGuard(ctx, solidity.Slot(namespace, "guard")),
	}
}

func (s *Staking) Address() thor.Address {
	return s.addr
}

// Stake deposits tokenAmount of the staking token and nativeValue of native coin.
// The staking contract must be approved for tokenAmount.
func (s *Staking) Stake(caller thor.Address, tokenAmount, nativeValue *big.Int) error {
	tokenAmount, nativeValue = orZero(tokenAmount), orZero(nativeValue)
	return s.rt.Exec(func() error {
		if tokenAmount.Sign() == 0 && nativeValue.Sign() == 0 {
			return reverts.NoDepositMade(caller)
		}
		rec, err := s.checkpoint(&caller)
		if err != nil {
			return err
		}
		if rec.TokenAmount, err = solidity.Add256(rec.TokenAmount, tokenAmount); err != nil {
			return err
		}
		if rec.NativeAmount, err = solidity.Add256(rec.NativeAmount, nativeValue); err != nil {
			return err
		}
		if err := s.storage.setRecord(caller, rec); err != nil {
			return err
		}
		if err := s.addTotals(tokenAmount, nativeValue); err != nil {
			return err
		}

		if err := s.rt.Transfer(caller, s.addr, nativeValue); err != nil {
			return err
		}
		if tokenAmount.Sign() > 0 {
			if err := s.stakingToken.TransferFrom(s.addr, caller, s.addr, tokenAmount); err != nil {
				return err
			}
		}
		s.rt.Emit(s.addr, "Staked", caller, tokenAmount, nativeValue)
		metricOps().AddWithLabel(1, map[string]string{"op": "stake"})
		logger.Debug("staked", "account", caller, "token", tokenAmount, "native", nativeValue)
		return nil
	})
}

// Withdraw returns staked amounts to the caller.
func (s *Staking) Withdraw(caller thor.Address, tokenAmount, nativeAmount *big.Int) error {
	tokenAmount, nativeAmount = orZero(tokenAmount), orZero(nativeAmount)
	return s.rt.Exec(func() error {
		return s.guard.Run(func() error {
			return s.withdraw(caller, tokenAmount, nativeAmount)
		})
	})
}

func (s *Staking) withdraw(caller thor.Address, tokenAmount, nativeAmount *big.Int) error {
	if tokenAmount.Sign() == 0 && nativeAmount.Sign() == 0 {
		return reverts.NoAmountToWithdraw(caller)
	}
	rec, err := s.checkpoint(&caller)
	if err != nil {
		return err
	}
	if tokenAmount.Cmp(rec.TokenAmount) > 0 || nativeAmount.Cmp(rec.NativeAmount) > 0 {
		return reverts.AmountUnavailableToWithdraw(caller)
	}
	rec.TokenAmount = new(big.Int).Sub(rec.TokenAmount, tokenAmount)
	rec.NativeAmount = new(big.Int).Sub(rec.NativeAmount, nativeAmount)
	if err := s.storage.setRecord(caller, rec); err != nil {
		return err
	}
	if err := s.subTotals(tokenAmount, nativeAmount); err != nil {
		return err
	}

	if tokenAmount.Sign() > 0 {
		if err := s.stakingToken.Transfer(s.addr, caller, tokenAmount); err != nil {
			return err
		}
	}
	if err := s.rt.Transfer(s.addr, caller, nativeAmount); err != nil {
		return err
	}
	s.rt.Emit(s.addr, "Withdrawn", caller, tokenAmount, nativeAmount)
	metricOps().AddWithLabel(1, map[string]string{"op": "withdraw"})
	logger.Debug("withdrawn", "account", caller, "token", tokenAmount, "native", nativeAmount)
	return nil
}

// GetReward pays the caller's accrued rewards.
func (s *Staking) GetReward(caller thor.Address) error {
	return s.rt.Exec(func() error {
		return s.guard.Run(func() error {
			return s.getReward(caller)
		})
	})
}

func (s *Staking) getReward(caller thor.Address) error {
	rec, err := s.checkpoint(&caller)
	if err != nil {
		return err
	}
	reward := rec.AccruedRewards
	if reward.Sign() == 0 {
		return reverts.NoRewardToClaim(caller)
	}
	rec.AccruedRewards = new(big.Int)
	if err := s.storage.setRecord(caller, rec); err != nil {
		return err
	}

	if err := s.rewardsToken.Transfer(s.addr, caller, reward); err != nil {
		return err
	}
	s.rt.Emit(s.addr, "RewardPaid", caller, reward)
	metricOps().AddWithLabel(1, map[string]string{"op": "claim"})
	logger.Debug("reward paid", "account", caller, "reward", reward)
	return nil
}

// Exit withdraws the whole stake and claims the accrued rewards, if any.
// It reverts with NoRewardToClaim only when there is neither stake nor reward.
func (s *Staking) Exit(caller thor.Address) error {
	return s.rt.Exec(func() error {
		return s.guard.Run(func() error {
			rec, err := s.storage.getRecord(caller)
			if err != nil {
				return err
			}
			if rec.TokenAmount.Sign() == 0 && rec.NativeAmount.Sign() == 0 {
				return s.getReward(caller)
			}
			if err := s.withdraw(caller, rec.TokenAmount, rec.NativeAmount); err != nil {
				return err
			}
			// withdraw has checkpointed the record
			if rec, err = s.storage.getRecord(caller); err != nil {
				return err
			}
			if rec.AccruedRewards.Sign() == 0 {
				return nil
			}
			return s.getReward(caller)
		})
	})
}

// NotifyRewardAmount starts a new period of amount, or blends amount with what is left of the running one.
func (s *Staking) NotifyRewardAmount(caller thor.Address, amount *big.Int) error {
	amount = orZero(amount)
	return s.rt.Exec(func() error {
		if err := authority.Require(s.auth, caller, authority.StakingNotify); err != nil {
			return err
		}
		if _, err := s.checkpoint(nil); err != nil {
			return err
		}

		now := s.rt.BlockTime()
		duration := RewardsDuration.Uint64(s.ctx)
		finishAt, err := s.storage.finishAt.Get()
		if err != nil {
			return err
		}
		d := new(big.Int).SetUint64(duration)

		var rate *big.Int
		if now >= finishAt {
			if rate, err = solidity.Div256(amount, d); err != nil {
				return err
			}
		} else {
			current, err := s.storage.rewardRate.Get()
			if err != nil {
				return err
			}
			remaining, err := solidity.Mul256(new(big.Int).SetUint64(finishAt-now), current)
			if err != nil {
				return err
			}
			total, err := solidity.Add256(amount, remaining)
			if err != nil {
				return err
			}
			if rate, err = solidity.Div256(total, d); err != nil {
				return err
			}
		}
		if rate.Sign() == 0 {
			return reverts.RewardRateEqualsZero()
		}

		payout, err := solidity.Mul256(rate, d)
		if err != nil {
			return err
		}
		available, err := s.availableRewards()
		if err != nil {
			return err
		}
		if payout.Cmp(available) > 0 {
			return reverts.RewardAmountGreaterThanContractBalance(payout, available)
		}

		if err := s.storage.rewardRate.Set(rate); err != nil {
			return err
		}
		s.storage.finishAt.Set(now + duration)
		s.storage.lastUpdateTime.Set(now)

		s.rt.Emit(s.addr, "RewardAdded", amount)
		metricOps().AddWithLabel(1, map[string]string{"op": "notify"})
		logger.Info("reward added", "amount", amount, "rate", rate, "finishAt", now+duration)
		return nil
	})
}

// availableRewards is the reward token balance held, net of staked tokens when both tokens are the same.
func (s *Staking) availableRewards() (*big.Int, error) {
	bal, err := s.rewardsToken.BalanceOf(s.addr)
	if err != nil {
		return nil, err
	}
	if s.rewardsToken.Address() != s.stakingToken.Address() {
		return bal, nil
	}
	staked, err := s.storage.totalStakedToken.Get()
	if err != nil {
		return nil, err
	}
	if bal.Cmp(staked) <= 0 {
		return new(big.Int), nil
	}
	return bal.Sub(bal, staked), nil
}

// SetRewardsDuration changes the period length once the running period is over.
func (s *Staking) SetRewardsDuration(caller thor.Address, duration uint64) error {
	return s.rt.Exec(func() error {
		if err := authority.Require(s.auth, caller, authority.StakingDuration); err != nil {
			return err
		}
		finishAt, err := s.storage.finishAt.Get()
		if err != nil {
			return err
		}
		if s.rt.BlockTime() < finishAt {
			return reverts.RewardDurationNotFinished(finishAt)
		}
		if err := RewardsDuration.Override(s.ctx, new(big.Int).SetUint64(duration)); err != nil {
			return err
		}
		s.rt.Emit(s.addr, "RewardsDurationUpdated", duration)
		logger.Info("rewards duration updated", "duration", RewardsDuration.Uint64(s.ctx))
		return nil
	})
}

// RecoverERC20 sends tokens mistakenly sent to the contract to the caller.
func (s *Staking) RecoverERC20(caller thor.Address, tok token.ERC20, amount *big.Int) error {
	return s.rt.Exec(func() error {
		if err := authority.Require(s.auth, caller, authority.StakingRecover); err != nil {
			return err
		}
		if tok.Address() == s.stakingToken.Address() || tok.Address() == s.rewardsToken.Address() {
			return reverts.CannotRecoverStakingOrRewardsTokens(tok.Address())
		}
		if err := tok.Transfer(s.addr, caller, amount); err != nil {
			return err
		}
		s.rt.Emit(s.addr, "Recovered", tok.Address(), amount)
		return nil
	})
}

func (s *Staking) addTotals(tokenAmount, nativeAmount *big.Int) error {
	if err := s.storage.totalStakedToken.Add(tokenAmount); err != nil {
		return err
	}
	if err := s.storage.totalStakedNative.Add(nativeAmount); err != nil {
		return err
	}
	return s.storage.totalStaked.Add(new(big.Int).Add(tokenAmount, nativeAmount))
}

func (s *Staking) subTotals(tokenAmount, nativeAmount *big.Int) error {
	if err := s.storage.totalStakedToken.Sub(tokenAmount); err != nil {
		return err
	}
	if err := s.storage.totalStakedNative.Sub(nativeAmount); err != nil {
		return err
	}
	return s.storage.totalStaked.Sub(new(big.Int).Add(tokenAmount, nativeAmount))
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
