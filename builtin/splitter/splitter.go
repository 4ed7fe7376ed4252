// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package splitter

import (
	"math/big"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/thor"
)

const defaultNamespace = "splitter"

var logger = log.WithContext("pkg", "splitter")

// Options configures a splitter instance.
type Options struct {
	// MaxPayees bounds the payee array. Zero means unbounded.
	MaxPayees uint64
	// Namespace prefixes every storage slot, so one address can host several splitters.
	Namespace string
	// AdminAction is the action required to change the payee set.
	AdminAction authority.Action
}

// Splitter distributes the native value it receives among weighted payees with pull payments.
type Splitter struct {
	addr    thor.Address
	rt      *runtime.Runtime
	auth    authority.Authorizer
	opts    Options
	storage *storage
	guard   *solidity.Guard
}

// New creates a splitter at addr and registers it as the receiver of value sent to addr.
func New(addr thor.Address, rt *runtime.Runtime, auth authority.Authorizer, opts Options) *Splitter {
	if opts.Namespace == "" {
		opts.Namespace = defaultNamespace
	}
	if opts.AdminAction == "" {
		opts.AdminAction = authority.SplitterAdmin
	}
	ctx := solidity.NewContext(addr, rt.State())
	s := &Splitter{
		addr:    addr,
		rt:      rt,
		auth:    auth,
		opts:    opts,
		storage: newStorage(ctx, opts.Namespace),
		guard:   solidity.NewGuard(ctx, solidity.Slot(opts.Namespace, "guard")),
	}
	rt.Register(addr, s)
	return s
}

func (s *Splitter) Address() thor.Address {
	return s.addr
}

// OnReceive records value sent to the splitter.
func (s *Splitter) OnReceive(_ *runtime.Runtime, from thor.Address, amount *big.Int) error {
	if err := s.Credit(amount); err != nil {
		return err
	}
	s.rt.Emit(s.addr, "PaymentReceived", from, amount)
	return nil
}

// Credit adds amount to the lifetime received total. Hosts that register their own
// receive hook for the splitter address call it directly.
func (s *Splitter) Credit(amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return s.storage.totalReceived.Add(amount)
}

// AddValidator appends addr with the given shares.
func (s *Splitter) AddValidator(caller, addr thor.Address, shares uint64) error {
	return s.rt.Exec(func() error {
		if err := authority.Require(s.auth, caller, s.opts.AdminAction); err != nil {
			return err
		}
		if addr.IsZero() {
			return reverts.ZeroAddress()
		}
		if shares == 0 {
			return reverts.ZeroShares()
		}
		payees, err := s.storage.payees.Get()
		if err != nil {
			return err
		}
		if find(payees, addr) >= 0 {
			return reverts.DuplicateValidator(addr)
		}
		if s.opts.MaxPayees > 0 && uint64(len(payees)) >= s.opts.MaxPayees {
			return reverts.CapacityExceeded(s.opts.MaxPayees)
		}

		if err := s.rebase(payees); err != nil {
			return err
		}
		payees = append(payees, Payee{Address: addr, Shares: shares})
		if err := s.storage.payees.Upsert(payees); err != nil {
			return err
		}
		if err := s.addTotalShares(shares); err != nil {
			return err
		}
		s.rt.Emit(s.addr, "PayeeAdded", addr, shares)
		metricPayees().SetWithLabel(int64(len(payees)), map[string]string{"namespace": s.opts.Namespace})
		logger.Debug("payee added", "namespace", s.opts.Namespace, "account", addr, "shares", shares)
		return nil
	})
}

// AdjustValidatorShares sets the shares of an existing payee.
// Value already received stays split under the old weights.
func (s *Splitter) AdjustValidatorShares(caller, addr thor.Address, shares uint64) error {
	return s.rt.Exec(func() error {
		if err := authority.Require(s.auth, caller, s.opts.AdminAction); err != nil {
			return err
		}
		if shares == 0 {
			return reverts.ZeroShares()
		}
		payees, err := s.storage.payees.Get()
		if err != nil {
			return err
		}
		i := find(payees, addr)
		if i < 0 {
			return reverts.NoShares(addr)
		}

		if err := s.rebase(payees); err != nil {
			return err
		}
		old := payees[i].Shares
		payees[i].Shares = shares
		if err := s.storage.payees.Upsert(payees); err != nil {
			return err
		}
		if err := s.subTotalShares(old); err != nil {
			return err
		}
		if err := s.addTotalShares(shares); err != nil {
			return err
		}
		s.rt.Emit(s.addr, "SharesAdjusted", addr, old, shares)
		logger.Debug("shares adjusted", "namespace", s.opts.Namespace, "account", addr, "from", old, "to", shares)
		return nil
	})
}

// AdjustValidatorAddress re-points the payee at index to newAddr. Shares and payment
// history move with the slot.
func (s *Splitter) AdjustValidatorAddress(caller thor.Address, index uint64, newAddr thor.Address) error {
	return s.rt.Exec(func() error {
		if err := authority.Require(s.auth, caller, s.opts.AdminAction); err != nil {
			return err
		}
		if newAddr.IsZero() {
			return reverts.ZeroAddress()
		}
		payees, err := s.storage.payees.Get()
		if err != nil {
			return err
		}
		if index >= uint64(len(payees)) {
			return reverts.ValidatorMismatch(newAddr, index)
		}
		if find(payees, newAddr) >= 0 {
			return reverts.AlreadyHasShares(newAddr)
		}

		old := payees[index].Address
		l, err := s.storage.getLedger(old)
		if err != nil {
			return err
		}
		// a previously removed payee keeps its lifetime history
		prev, err := s.storage.getLedger(newAddr)
		if err != nil {
			return err
		}
		l.Released = new(big.Int).Add(l.Released, prev.Released)
		if err := s.storage.setLedger(newAddr, l); err != nil {
			return err
		}
		s.storage.ledgers.Delete(old)
		payees[index].Address = newAddr
		if err := s.storage.payees.Upsert(payees); err != nil {
			return err
		}
		s.rt.Emit(s.addr, "AddressAdjusted", index, old, newAddr)
		logger.Debug("payee address adjusted", "namespace", s.opts.Namespace, "index", index, "from", old, "to", newAddr)
		return nil
	})
}

// RemoveValidator removes the payee at index, which must hold addr. Later payees shift
// down by one. The removed payee is paid what it had accrued.
func (s *Splitter) RemoveValidator(caller, addr thor.Address, index uint64) error {
	return s.rt.Exec(func() error {
		if err := authority.Require(s.auth, caller, s.opts.AdminAction); err != nil {
			return err
		}
		payees, err := s.storage.payees.Get()
		if err != nil {
			return err
		}
		if index >= uint64(len(payees)) || payees[index].Address != addr {
			return reverts.ValidatorMismatch(addr, index)
		}
		return s.guard.Run(func() error {
			if err := s.rebase(payees); err != nil {
				return err
			}
			shares := payees[index].Shares
			payees = append(payees[:index], payees[index+1:]...)
			if err := s.storage.payees.Upsert(payees); err != nil {
				return err
			}
			if err := s.subTotalShares(shares); err != nil {
				return err
			}

			l, err := s.storage.getLedger(addr)
			if err != nil {
				return err
			}
			payment := l.Carried
			l.Carried = new(big.Int)
			l.ReleasedInSegment = new(big.Int)
			if payment.Sign() > 0 {
				if err := s.pay(addr, l, payment); err != nil {
					return err
				}
			} else if err := s.storage.setLedger(addr, l); err != nil {
				return err
			}
			s.rt.Emit(s.addr, "PayeeRemoved", addr, index, shares)
			metricPayees().SetWithLabel(int64(len(payees)), map[string]string{"namespace": s.opts.Namespace})
			logger.Debug("payee removed", "namespace", s.opts.Namespace, "account", addr, "index", index, "paid", payment)
			return nil
		})
	})
}

// rebase folds every payee's releasable amount into its carried credit and
// starts a new segment at the current received total. Value received while no
// payee holds shares stays in the open segment for the next payee set.
func (s *Splitter) rebase(payees []Payee) error {
	seg, err := s.segment()
	if err != nil {
		return err
	}
	if seg.totalShares == 0 {
		return nil
	}
	for _, p := range payees {
		l, err := s.storage.getLedger(p.Address)
		if err != nil {
			return err
		}
		due, err := s.releasable(l, p.Shares, seg)
		if err != nil {
			return err
		}
		l.Carried = due
		l.ReleasedInSegment = new(big.Int)
		if err := s.storage.setLedger(p.Address, l); err != nil {
			return err
		}
	}
	received, err := s.storage.totalReceived.Get()
	if err != nil {
		return err
	}
	return s.storage.baseReceived.Set(received)
}

func (s *Splitter) addTotalShares(shares uint64) error {
	total, err := s.storage.totalShares.Get()
	if err != nil {
		return err
	}
	if total+shares < total {
		return reverts.Arithmetic("add")
	}
	s.storage.totalShares.Set(total + shares)
	return nil
}

func (s *Splitter) subTotalShares(shares uint64) error {
	total, err := s.storage.totalShares.Get()
	if err != nil {
		return err
	}
	if shares > total {
		return reverts.Arithmetic("sub")
	}
	s.storage.totalShares.Set(total - shares)
	return nil
}
