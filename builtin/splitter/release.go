// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package splitter

import (
	"math/big"

	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/thor"
)

// segment is the value received since the last rebase, split over the current total shares.
type segment struct {
	received    *big.Int
	totalShares uint64
}

func (s *Splitter) segment() (*segment, error) {
	received, err := s.storage.totalReceived.Get()
	if err != nil {
		return nil, err
	}
	base, err := s.storage.baseReceived.Get()
	if err != nil {
		return nil, err
	}
	diff, err := solidity.Sub256(received, base)
	if err != nil {
		return nil, err
	}
	total, err := s.storage.totalShares.Get()
	if err != nil {
		return nil, err
	}
	return &segment{received: diff, totalShares: total}, nil
}

// releasable is carried + floor(segment * shares / totalShares) - releasedInSegment.
func (s *Splitter) releasable(l *ledger, shares uint64, seg *segment) (*big.Int, error) {
	due := l.Carried
	if seg.totalShares > 0 && shares > 0 {
		share, err := solidity.MulDiv(seg.received, new(big.Int).SetUint64(shares), new(big.Int).SetUint64(seg.totalShares))
		if err != nil {
			return nil, err
		}
		if due, err = solidity.Add256(due, share); err != nil {
			return nil, err
		}
	}
	return solidity.Sub256(due, l.ReleasedInSegment)
}

// Release pays addr everything it is due.
func (s *Splitter) Release(addr thor.Address) error {
	return s.rt.Exec(func() error {
		return s.guard.Run(func() error {
			payees, err := s.storage.payees.Get()
			if err != nil {
				return err
			}
			i := find(payees, addr)
			if i < 0 {
				return reverts.NoShares(addr)
			}
			paid, err := s.release(payees[i])
			if err != nil {
				return err
			}
			if paid.Sign() == 0 {
				return reverts.NotDuePayment(addr)
			}
			return nil
		})
	})
}

// DisperseSinglePaymentToValidator is an alias of Release.
func (s *Splitter) DisperseSinglePaymentToValidator(addr thor.Address) error {
	return s.Release(addr)
}

// ReleaseAll pays every payee in array order and returns the total paid.
// Payees with nothing due are skipped.
func (s *Splitter) ReleaseAll() (*big.Int, error) {
	total := new(big.Int)
	err := s.rt.Exec(func() error {
		return s.guard.Run(func() error {
			payees, err := s.storage.payees.Get()
			if err != nil {
				return err
			}
			var n int64
			for _, p := range payees {
				paid, err := s.release(p)
				if err != nil {
					return err
				}
				if paid.Sign() > 0 {
					n++
				}
				total.Add(total, paid)
			}
			metricBatch().Observe(n)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}

// DisperseAllPaymentsToValidators is an alias of ReleaseAll.
func (s *Splitter) DisperseAllPaymentsToValidators() (*big.Int, error) {
	return s.ReleaseAll()
}

func (s *Splitter) release(p Payee) (*big.Int, error) {
	seg, err := s.segment()
	if err != nil {
		return nil, err
	}
	l, err := s.storage.getLedger(p.Address)
	if err != nil {
		return nil, err
	}
	due, err := s.releasable(l, p.Shares, seg)
	if err != nil {
		return nil, err
	}
	if due.Sign() == 0 {
		return due, nil
	}
	l.ReleasedInSegment = new(big.Int).Add(l.ReleasedInSegment, due)
	if err := s.pay(p.Address, l, due); err != nil {
		return nil, err
	}
	return due, nil
}

// pay records amount as released to addr, then transfers it.
func (s *Splitter) pay(addr thor.Address, l *ledger, amount *big.Int) error {
	l.Released = new(big.Int).Add(l.Released, amount)
	if err := s.storage.setLedger(addr, l); err != nil {
		return err
	}
	if err := s.storage.totalReleased.Add(amount); err != nil {
		return err
	}

	if err := s.rt.Transfer(s.addr, addr, amount); err != nil {
		return err
	}
	s.rt.Emit(s.addr, "PaymentReleased", addr, amount)
	metricReleased().Add(1)
	logger.Debug("payment released", "namespace", s.opts.Namespace, "account", addr, "amount", amount)
	return nil
}
