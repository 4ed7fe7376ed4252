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

const namespace = "staking"

// StakeRecord is the per staker ledger. Records are zeroed, never deleted.
type StakeRecord struct {
	TokenAmount        *big.Int
	NativeAmount       *big.Int
	RewardPerTokenPaid *big.Int
	AccruedRewards     *big.Int
}

func (r *StakeRecord) normalize() *StakeRecord {
	for _, f := range []**big.Int{&r.TokenAmount, &r.NativeAmount, &r.RewardPerTokenPaid, &r.AccruedRewards} {
		if *f == nil {
			*f = new(big.Int)
		}
	}
	return r
}

// Balance is the combined stake used as accrual weight.
func (r *StakeRecord) Balance() *big.Int {
	return new(big.Int).Add(r.TokenAmount, r.NativeAmount)
}

// storage lays out the global accrual state and the records.
type storage struct {
	totalStaked          *solidity.Uint256
	totalStakedToken     *solidity.Uint256
	totalStakedNative    *solidity.Uint256
	rewardRate           *solidity.Uint256
	rewardPerTokenStored *solidity.Uint256
	lastUpdateTime       *solidity.Uint64
	finishAt             *solidity.Uint64
	records              *solidity.Mapping[thor.Address, *StakeRecord]
}

func newStorage(ctx *solidity.Context) *storage {
	slot := func(name string) thor.Bytes32 { return solidity.Slot(namespace, name) }
	return &storage{
		totalStaked:          solidity.NewUint256(ctx, slot("total-staked")),
		totalStakedToken:     solidity.NewUint256(ctx, slot("total-staked-token")),
		totalStakedNative:    solidity.NewUint256(ctx, slot("total-staked-native")),
		rewardRate:           solidity.NewUint256(ctx, slot("reward-rate")),
		rewardPerTokenStored: solidity.NewUint256(ctx, slot("reward-per-token-stored")),
		lastUpdateTime:       solidity.NewUint64(ctx, slot("last-update-time")),
		finishAt:             solidity.NewUint64(ctx, slot("finish-at")),
		records:              solidity.NewMapping[thor.Address, *StakeRecord](ctx, slot("records")),
	}
}

func (s *storage) getRecord(account thor.Address) (*StakeRecord, error) {
	rec, err := s.records.Get(account)
	if err != nil {
		return nil, err
	}
	return rec.normalize(), nil
}

func (s *storage) setRecord(account thor.Address, rec *StakeRecord) error {
	return s.records.Set(account, rec)
}
