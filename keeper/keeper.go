// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package keeper distributes collected fees to the fee channels once the
// distribution interval has passed.
package keeper

import (
	"context"
	"math/big"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/metrics"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/thor"
)

var (
	logger = log.WithContext("pkg", "keeper")

	metricRuns = metrics.LazyLoadCounterVec("keeper_runs_count", []string{"result"})
)

const (
	resultSkipped     = "skipped"
	resultDistributed = "distributed"
	resultFailed      = "failed"
)

type Options struct {
	// Caller is the account distributions are made from. It needs no role.
	Caller   thor.Address
	Interval time.Duration
	Clock    clockwork.Clock
}

type Keeper struct {
	engine *engine.Engine
	opts   Options
}

func New(e *engine.Engine, opts Options) *Keeper {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Keeper{engine: e, opts: opts}
}

// Run ticks until ctx is done.
func (k *Keeper) Run(ctx context.Context) {
	logger.Info("keeper started", "interval", k.opts.Interval, "caller", k.opts.Caller)
	defer logger.Info("keeper stopped")

	ticker := k.opts.Clock.NewTicker(k.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if _, err := k.Tick(); err != nil {
				logger.Warn("fee distribution failed", "err", err)
			}
		}
	}
}

// Tick distributes fees if the distribution is due at the clock's current time.
// It returns the amount paid, or nil when nothing was due.
func (k *Keeper) Tick() (*big.Int, error) {
	blk := k.engine.Block()
	now := uint64(k.opts.Clock.Now().Unix())
	if now < blk.Time {
		now = blk.Time
	}

	var next uint64
	if err := k.engine.View(func(e *engine.Engine) (err error) {
		next, err = e.Fees.NextDistributionTime()
		return
	}); err != nil {
		metricRuns().AddWithLabel(1, map[string]string{"result": resultFailed})
		return nil, err
	}
	if now < next {
		metricRuns().AddWithLabel(1, map[string]string{"result": resultSkipped})
		logger.Trace("distribution not due", "now", now, "next", next)
		return nil, nil
	}

	var paid *big.Int
	_, err := k.engine.Update(runtime.BlockContext{Number: blk.Number + 1, Time: now}, func(e *engine.Engine) (err error) {
		paid, err = e.Fees.DistributeFeesToChannels(k.opts.Caller)
		return
	})
	if err != nil {
		metricRuns().AddWithLabel(1, map[string]string{"result": resultFailed})
		return nil, err
	}
	metricRuns().AddWithLabel(1, map[string]string{"result": resultDistributed})
	return paid, nil
}
