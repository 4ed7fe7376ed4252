// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package appfee

import (
	"math/big"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/splitter"
	"github.com/vechain/accrual/thor"
)

// AddChannel appends a fee channel with the given weight.
func (m *Manager) AddChannel(caller, addr thor.Address, weight uint64) error {
	return m.channels.AddValidator(caller, addr, weight)
}

// AdjustChannel sets the address and weight of the channel at index.
func (m *Manager) AdjustChannel(caller thor.Address, index uint64, addr thor.Address, weight uint64) error {
	return m.rt.Exec(func() error {
		if err := authority.Require(m.auth, caller, authority.FeeAdmin); err != nil {
			return err
		}
		ch, err := m.channels.Validator(index)
		if err != nil {
			return err
		}
		if ch.Address != addr {
			if err := m.channels.AdjustValidatorAddress(caller, index, addr); err != nil {
				return err
			}
		}
		if ch.Shares != weight {
			return m.channels.AdjustValidatorShares(caller, addr, weight)
		}
		return nil
	})
}

// RemoveChannel removes the channel at index, which must be addr.
func (m *Manager) RemoveChannel(caller, addr thor.Address, index uint64) error {
	return m.channels.RemoveValidator(caller, addr, index)
}

// Channels returns the fee channels in order.
func (m *Manager) Channels() ([]splitter.Payee, error) {
	return m.channels.Validators()
}

// ChannelReleasable returns what the channel at addr could be paid now.
func (m *Manager) ChannelReleasable(addr thor.Address) (*big.Int, error) {
	return m.channels.Releasable(addr)
}

// DistributeFeesToChannels pays every channel its share of the collected fees.
// Anyone may call it once the distribution interval has passed, earlier only
// callers authorized to distribute. It returns the total paid.
func (m *Manager) DistributeFeesToChannels(caller thor.Address) (*big.Int, error) {
	var paid *big.Int
	err := m.rt.Exec(func() error {
		if !m.auth.IsAuthorized(caller, authority.FeeDistribute) {
			next, err := m.NextDistributionTime()
			if err != nil {
				return err
			}
			if m.rt.BlockTime() < next {
				return reverts.DistributionTooEarly(next)
			}
		}
		m.storage.lastDistributionTime.Set(m.rt.BlockTime())
		m.storage.lastDistributionBlock.Set(uint64(m.rt.BlockNumber()))

		var err error
		if paid, err = m.channels.ReleaseAll(); err != nil {
			return err
		}
		m.rt.Emit(m.addr, "FeesDistributed", caller, paid)
		metricDistribute().Add(1)
		logger.Info("fees distributed", "caller", caller, "amount", paid, "block", m.rt.BlockNumber())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// CollectFee is an alias of DistributeFeesToChannels.
func (m *Manager) CollectFee(caller thor.Address) (*big.Int, error) {
	return m.DistributeFeesToChannels(caller)
}
