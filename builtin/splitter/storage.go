// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package splitter

import (
	"math/big"

	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/thor"
)

// Payee is one slot of the order-stable payee array.
type Payee struct {
	Address thor.Address
	Shares  uint64
}

// ledger is the per address payment history.
type ledger struct {
	Carried           *big.Int // settled entitlement from earlier segments
	ReleasedInSegment *big.Int // paid since the last rebase
	Released          *big.Int // lifetime paid
}

func (l *ledger) normalize() *ledger {
	for _, f := range []**big.Int{&l.Carried, &l.ReleasedInSegment, &l.Released} {
		if *f == nil {
			*f = new(big.Int)
		}
	}
	return l
}

type storage struct {
	payees        *solidity.Raw[[]Payee]
	ledgers       *solidity.Mapping[thor.Address, *ledger]
	totalShares   *solidity.Uint64
	totalReceived *solidity.Uint256
	totalReleased *solidity.Uint256
	baseReceived  *solidity.Uint256
}

func newStorage(ctx *solidity.Context, namespace string) *storage {
	slot := func(name string) thor.Bytes32 { return solidity.Slot(namespace, name) }
	return &storage{
		payees:        solidity.NewRaw[[]Payee](ctx, slot("payees")),
		ledgers:       solidity.NewMapping[thor.Address, *ledger](ctx, slot("ledgers")),
		totalShares:   solidity.NewUint64(ctx, slot("total-shares")),
		totalReceived: solidity.NewUint256(ctx, slot("total-received")),
		totalReleased: solidity.NewUint256(ctx, slot("total-released")),
		baseReceived:  solidity.NewUint256(ctx, slot("base-received")),
	}
}

func (s *storage) getLedger(addr thor.Address) (*ledger, error) {
	l, err := s.ledgers.Get(addr)
	if err != nil {
		return nil, err
	}
	return l.normalize(), nil
}

func (s *storage) setLedger(addr thor.Address, l *ledger) error {
	return s.ledgers.Set(addr, l)
}

// find returns the index of addr, or -1.
func find(payees []Payee, addr thor.Address) int {
	for i, p := range payees {
		if p.Address == addr {
			return i
		}
	}
	return -1
}
