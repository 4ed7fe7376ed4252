// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/thor"
)

// lastTimeRewardApplicable is min(now, finishAt).
func (s *Staking) lastTimeRewardApplicable() (uint64, error) {
	finishAt, err := s.storage.finishAt.Get()
	if err != nil {
		return 0, err
	}
	return solidity.Min(s.rt.BlockTime(), finishAt), nil
}

// rewardPerToken is stored + (applicable - lastUpdate) * rate * 1e18 / totalStaked.
func (s *Staking) rewardPerToken() (*big.Int, error) {
	stored, err := s.storage.rewardPerTokenStored.Get()
	if err != nil {
		return nil, err
	}
	total, err := s.storage.totalStaked.Get()
	if err != nil {
		return nil, err
	}
	if total.Sign() == 0 {
		return stored, nil
	}
	applicable, err := s.lastTimeRewardApplicable()
	if err != nil {
		return nil, err
	}
	last, err := s.storage.lastUpdateTime.Get()
	if err != nil {
		return nil, err
	}
	if applicable <= last {
		return stored, nil
	}
	rate, err := s.storage.rewardRate.Get()
	if err != nil {
		return nil, err
	}
	accrued, err := solidity.Mul256(new(big.Int).SetUint64(applicable-last), rate)
	if err != nil {
		return nil, err
	}
	delta, err := solidity.MulDiv(accrued, thor.Scale, total)
	if err != nil {
		return nil, err
	}
	return solidity.Add256(stored, delta)
}

// earned is balance * (rpt - paid) / 1e18 + accrued.
func earned(rec *StakeRecord, rpt *big.Int) (*big.Int, error) {
	diff, err := solidity.Sub256(rpt, rec.RewardPerTokenPaid)
	if err != nil {
		return nil, err
	}
	pending, err := solidity.MulDiv(rec.Balance(), diff, thor.Scale)
	if err != nil {
		return nil, err
	}
	return solidity.Add256(pending, rec.AccruedRewards)
}

// checkpoint folds elapsed accrual into the global accumulator, then reconciles account if given.
// It must run before any balance or reward mutation.
func (s *Staking) checkpoint(account *thor.Address) (*StakeRecord, error) {
	rpt, err := s.rewardPerToken()
	if err != nil {
		return nil, err
	}
	applicable, err := s.lastTimeRewardApplicable()
	if err != nil {
		return nil, err
	}
	if err := s.storage.rewardPerTokenStored.Set(rpt); err != nil {
		return nil, err
	}
	last, err := s.storage.lastUpdateTime.Get()
	if err != nil {
		return nil, err
	}
	// lastUpdateTime never moves backwards
	if applicable > last {
		s.storage.lastUpdateTime.Set(applicable)
	}

	if account == nil {
		return nil, nil
	}
	rec, err := s.storage.getRecord(*account)
	if err != nil {
		return nil, err
	}
	if rec.AccruedRewards, err = earned(rec, rpt); err != nil {
		return nil, err
	}
	rec.RewardPerTokenPaid = rpt
	return rec, nil
}
