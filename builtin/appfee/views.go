// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package appfee

import "math/big"

// ViewFee returns the cached fee without refreshing it.
func (m *Manager) ViewFee() (*big.Int, error) {
	return m.storage.cachedFee.Get()
}

func (m *Manager) PriorFee() (*big.Int, error) {
	return m.storage.priorFee.Get()
}

func (m *Manager) NextResetTime() (uint64, error) {
	return m.storage.nextResetTime.Get()
}

func (m *Manager) LastResetTime() (uint64, error) {
	return m.storage.lastResetTime.Get()
}

func (m *Manager) Epoch() (uint64, error) {
	return m.storage.epoch.Get()
}

func (m *Manager) RequiredFeeUSD() (*big.Int, error) {
	return m.storage.requiredFeeUSD.Get()
}

func (m *Manager) MinFee() (*big.Int, error) {
	return m.storage.minFee.Get()
}

func (m *Manager) LastDistributionTime() (uint64, error) {
	return m.storage.lastDistributionTime.Get()
}

func (m *Manager) LastDistributionBlock() (uint64, error) {
	return m.storage.lastDistributionBlock.Get()
}

// NextDistributionTime is when distribution becomes permissionless.
func (m *Manager) NextDistributionTime() (uint64, error) {
	last, err := m.storage.lastDistributionTime.Get()
	if err != nil {
		return 0, err
	}
	return last + DistributionInterval.Uint64(m.ctx), nil
}

func (m *Manager) EpochLength() uint64 {
	return EpochLength.Uint64(m.ctx)
}

func (m *Manager) GraceLength() uint64 {
	return GraceLength.Uint64(m.ctx)
}
