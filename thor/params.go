// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// Constants of the accounting engines.
const (
	Day uint64 = 24 * 60 * 60 // seconds

	DefaultRewardsDuration      uint64 = 7 * Day // length of a staking reward period.
	DefaultFeeEpochLength       uint64 = Day     // fee cache lifetime.
	DefaultFeeGraceLength       uint64 = 60 * 60 // prior fee stays payable for an hour after a reset.
	DefaultDistributionInterval uint64 = Day     // permissionless channel distribution interval.

	MaxChannels = 5 // fee channels limit.
)

var (
	// Scale is the fixed point multiplier of reward-per-token, 1e18.
	Scale = big.NewInt(1e18)

	// InitialRequiredFeeUSD the application fee in USD with 18 decimals, 1 USD.
	InitialRequiredFeeUSD = big.NewInt(1e18)
	// InitialMinFee the lowest developer fee accepted, in wei.
	InitialMinFee = big.NewInt(1e15)
)
