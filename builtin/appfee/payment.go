// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package appfee

import (
	"math/big"

	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/thor"
)

// FeeForPayer returns the fee payer owes now. A payer who paid in the previous
// epoch may still pay the prior fee within the grace window after a reset.
func (m *Manager) FeeForPayer(payer thor.Address) (*big.Int, error) {
	var fee *big.Int
	err := m.rt.Exec(func() (err error) {
		fee, _, err = m.feeForPayer(payer)
		return
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

func (m *Manager) feeForPayer(payer thor.Address) (*big.Int, bool, error) {
	fee, err := m.getFee()
	if err != nil {
		return nil, false, err
	}
	grace, err := m.inGrace(payer)
	if err != nil {
		return nil, false, err
	}
	if !grace {
		return fee, false, nil
	}
	prior, err := m.storage.priorFee.Get()
	if err != nil {
		return nil, false, err
	}
	return prior, true, nil
}

func (m *Manager) inGrace(payer thor.Address) (bool, error) {
	epoch, err := m.storage.epoch.Get()
	if err != nil {
		return false, err
	}
	if epoch < 2 {
		return false, nil
	}
	paidIn, err := m.storage.payerEpochs.Get(payer)
	if err != nil {
		return false, err
	}
	if paidIn != epoch-1 {
		return false, nil
	}
	reset, err := m.storage.lastResetTime.Get()
	if err != nil {
		return false, err
	}
	return m.rt.BlockTime() < reset+GraceLength.Uint64(m.ctx), nil
}

// PayFee charges payer the fee it owes, given that it offers value. Only the fee
// is taken; the excess stays with the payer. It returns the fee charged.
func (m *Manager) PayFee(payer thor.Address, value *big.Int) (*big.Int, error) {
	return m.Charge(payer, payer, value)
}

// Charge prices the fee for payer and takes it from the funds held by from.
// Applications that escrow the caller's value pass themselves as from.
func (m *Manager) Charge(payer, from thor.Address, value *big.Int) (*big.Int, error) {
	if value == nil {
		value = new(big.Int)
	}
	var fee *big.Int
	err := m.rt.Exec(func() error {
		var (
			grace bool
			err   error
		)
		if fee, grace, err = m.feeForPayer(payer); err != nil {
			return err
		}
		if value.Cmp(fee) < 0 {
			return reverts.InsufficientFee(fee, value)
		}
		epoch, err := m.storage.epoch.Get()
		if err != nil {
			return err
		}
		if err := m.storage.payerEpochs.Set(payer, epoch); err != nil {
			return err
		}

		if err := m.rt.Transfer(from, m.addr, fee); err != nil {
			return err
		}
		m.rt.Emit(m.addr, "FeePaid", payer, fee, new(big.Int).Sub(value, fee))
		metricPaid().AddWithLabel(1, map[string]string{"grace": boolLabel(grace)})
		logger.Debug("fee paid", "payer", payer, "fee", fee, "grace", grace)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
