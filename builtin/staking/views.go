// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/accrual/thor"
)

func (s *Staking) LastTimeRewardApplicable() (uint64, error) {
	return s.lastTimeRewardApplicable()
}

func (s *Staking) RewardPerToken() (*big.Int, error) {
	return s.rewardPerToken()
}

// Earned is what account could claim now.
func (s *Staking) Earned(account thor.Address) (*big.Int, error) {
	rpt, err := s.rewardPerToken()
	if err != nil {
		return nil, err
	}
	rec, err := s.storage.getRecord(account)
	if err != nil {
		return nil, err
	}
	return earned(rec, rpt)
}

// Balance is account's combined stake.
func (s *Staking) Balance(account thor.Address) (*big.Int, error) {
	rec, err := s.storage.getRecord(account)
	if err != nil {
		return nil, err
	}
	return rec.Balance(), nil
}

func (s *Staking) Record(account thor.Address) (*StakeRecord, error) {
	return s.storage.getRecord(account)
}

func (s *Staking) TotalStaked() (*big.Int, error) {
	return s.storage.totalStaked.Get()
}

func (s *Staking) TotalStakedToken() (*big.Int, error) {
	return s.storage.totalStakedToken.Get()
}

func (s *Staking) TotalStakedNative() (*big.Int, error) {
	return s.storage.totalStakedNative.Get()
}

func (s *Staking) RewardRate() (*big.Int, error) {
	return s.storage.rewardRate.Get()
}

func (s *Staking) RewardPerTokenStored() (*big.Int, error) {
	return s.storage.rewardPerTokenStored.Get()
}

func (s *Staking) FinishAt() (uint64, error) {
	return s.storage.finishAt.Get()
}

func (s *Staking) LastUpdateTime() (uint64, error) {
	return s.storage.lastUpdateTime.Get()
}

// Duration is the configured period length.
func (s *Staking) Duration() uint64 {
	return RewardsDuration.Uint64(s.ctx)
}
