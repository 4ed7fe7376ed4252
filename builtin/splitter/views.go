// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package splitter

import (
	"math/big"

	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/thor"
)

// Releasable returns what addr could be paid now.
func (s *Splitter) Releasable(addr thor.Address) (*big.Int, error) {
	payees, err := s.storage.payees.Get()
	if err != nil {
		return nil, err
	}
	var shares uint64
	if i := find(payees, addr); i >= 0 {
		shares = payees[i].Shares
	}
	seg, err := s.segment()
	if err != nil {
		return nil, err
	}
	l, err := s.storage.getLedger(addr)
	if err != nil {
		return nil, err
	}
	return s.releasable(l, shares, seg)
}

// Validators returns the payees in array order.
func (s *Splitter) Validators() ([]Payee, error) {
	return s.storage.payees.Get()
}

// Validator returns the payee at index, or ValidatorMismatch if there is none.
func (s *Splitter) Validator(index uint64) (*Payee, error) {
	payees, err := s.storage.payees.Get()
	if err != nil {
		return nil, err
	}
	if index >= uint64(len(payees)) {
		return nil, reverts.ValidatorMismatch(thor.Address{}, index)
	}
	p := payees[index]
	return &p, nil
}

func (s *Splitter) Shares(addr thor.Address) (uint64, error) {
	payees, err := s.storage.payees.Get()
	if err != nil {
		return 0, err
	}
	if i := find(payees, addr); i >= 0 {
		return payees[i].Shares, nil
	}
	return 0, nil
}

// Released returns the lifetime amount paid to addr.
func (s *Splitter) Released(addr thor.Address) (*big.Int, error) {
	l, err := s.storage.getLedger(addr)
	if err != nil {
		return nil, err
	}
	return l.Released, nil
}

func (s *Splitter) TotalShares() (uint64, error) {
	return s.storage.totalShares.Get()
}

func (s *Splitter) TotalReceived() (*big.Int, error) {
	return s.storage.totalReceived.Get()
}

func (s *Splitter) TotalReleased() (*big.Int, error) {
	return s.storage.totalReleased.Get()
}
