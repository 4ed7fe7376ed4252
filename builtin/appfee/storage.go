// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package appfee

import (
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/thor"
)

const (
	namespace         = "appfee"
	channelsNamespace = "appfee-channels"
)

type storage struct {
	cachedFee             *solidity.Uint256
	priorFee              *solidity.Uint256
	requiredFeeUSD        *solidity.Uint256
	minFee                *solidity.Uint256
	nextResetTime         *solidity.Uint64
	lastResetTime         *solidity.Uint64
	epoch                 *solidity.Uint64
	lastDistributionTime  *solidity.Uint64
	lastDistributionBlock *solidity.Uint64
	payerEpochs           *solidity.Mapping[thor.Address, uint64]
}

func newStorage(ctx *solidity.Context) *storage {
	slot := func(name string) thor.Bytes32 { return solidity.Slot(namespace, name) }
	return &storage{
		cachedFee:             solidity.NewUint256(ctx, slot("cached-fee")),
		priorFee:              solidity.NewUint256(ctx, slot("prior-fee")),
		requiredFeeUSD:        solidity.NewUint256(ctx, slot("required-fee-usd")),
		minFee:                solidity.NewUint256(ctx, slot("min-fee")),
		nextResetTime:         solidity.NewUint64(ctx, slot("next-reset-time")),
		lastResetTime:         solidity.NewUint64(ctx, slot("last-reset-time")),
		epoch:                 solidity.NewUint64(ctx, slot("epoch")),
		lastDistributionTime:  solidity.NewUint64(ctx, slot("last-distribution-time")),
		lastDistributionBlock: solidity.NewUint64(ctx, slot("last-distribution-block")),
		payerEpochs:           solidity.NewMapping[thor.Address, uint64](ctx, slot("payer-epochs")),
	}
}
