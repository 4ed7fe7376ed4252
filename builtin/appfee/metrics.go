// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package appfee

import "github.com/vechain/accrual/metrics"

var (
	metricRefresh    = metrics.LazyLoadCounterVec("fee_refresh_count", []string{"trigger"})
	metricPaid       = metrics.LazyLoadCounterVec("fee_paid_count", []string{"grace"})
	metricDistribute = metrics.LazyLoadCounter("fee_distribution_count")
)
