// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/accrual/thor"
)

type Payee struct {
	Address    thor.Address `json:"address"`
	Shares     uint64       `json:"shares"`
	Released   *hexutil.Big `json:"released"`
	Releasable *hexutil.Big `json:"releasable"`
}

type Validators struct {
	TotalShares   uint64       `json:"totalShares"`
	TotalReceived *hexutil.Big `json:"totalReceived"`
	TotalReleased *hexutil.Big `json:"totalReleased"`
	Validators    []*Payee     `json:"validators"`
}
