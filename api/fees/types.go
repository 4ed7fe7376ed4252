// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fees

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/accrual/thor"
)

type Channel struct {
	Address    thor.Address `json:"address"`
	Weight     uint64       `json:"weight"`
	Releasable *hexutil.Big `json:"releasable"`
}

type Fees struct {
	Fee                   *hexutil.Big `json:"fee"`
	PriorFee              *hexutil.Big `json:"priorFee"`
	RequiredFeeUSD        *hexutil.Big `json:"requiredFeeUSD"`
	MinFee                *hexutil.Big `json:"minFee"`
	Epoch                 uint64       `json:"epoch"`
	EpochLength           uint64       `json:"epochLength"`
	GraceLength           uint64       `json:"graceLength"`
	LastResetTime         uint64       `json:"lastResetTime"`
	NextResetTime         uint64       `json:"nextResetTime"`
	Stale                 bool         `json:"stale"`
	LastDistributionTime  uint64       `json:"lastDistributionTime"`
	LastDistributionBlock uint64       `json:"lastDistributionBlock"`
	NextDistributionTime  uint64       `json:"nextDistributionTime"`
	Channels              []*Channel   `json:"channels"`
}
