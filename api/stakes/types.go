// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/accrual/thor"
)

type Totals struct {
	TotalStaked       *hexutil.Big `json:"totalStaked"`
	TotalStakedToken  *hexutil.Big `json:"totalStakedToken"`
	TotalStakedNative *hexutil.Big `json:"totalStakedNative"`
	RewardRate        *hexutil.Big `json:"rewardRate"`
	RewardPerToken    *hexutil.Big `json:"rewardPerToken"`
	FinishAt          uint64       `json:"finishAt"`
	LastUpdateTime    uint64       `json:"lastUpdateTime"`
	Duration          uint64       `json:"duration"`
}

type Account struct {
	Address      thor.Address `json:"address"`
	TokenAmount  *hexutil.Big `json:"tokenAmount"`
	NativeAmount *hexutil.Big `json:"nativeAmount"`
	Balance      *hexutil.Big `json:"balance"`
	Earned       *hexutil.Big `json:"earned"`
	Totals       *Totals      `json:"totals"`
}
