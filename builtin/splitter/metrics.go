// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package splitter

import "github.com/vechain/accrual/metrics"

var (
	metricReleased = metrics.LazyLoadCounter("splitter_released_count")
	metricPayees   = metrics.LazyLoadGaugeVec("splitter_payees_gauge", []string{"namespace"})
	metricBatch    = metrics.LazyLoadHistogram("splitter_release_batch", metrics.BucketReleases)
)
