// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package application implements the fee paying consumers of the fee manager.
package application

import (
	"math/big"

	"github.com/vechain/accrual/builtin/appfee"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/thor"
)

const namespace = "application"

var logger = log.WithContext("pkg", "application")

// Receipt is the split of the value sent with a call.
type Receipt struct {
	NetworkFee   *big.Int
	DeveloperFee *big.Int
	Refund       *big.Int
}

// NativeApplication charges the network fee on every call and refunds the rest of the value.
type NativeApplication struct {
	addr  thor.Address
	rt    *runtime.Runtime
	ctx   *solidity.Context
	fees  *appfee.Manager
	guard *solidity.Guard
	calls *solidity.Uint64
}

func NewNative(addr thor.Address, rt *runtime.Runtime, fees *appfee.Manager) *NativeApplication {
	ctx := solidity.NewContext(addr, rt.State())
	return &NativeApplication{
		addr:  addr,
		rt:    rt,
		ctx:   ctx,
		fees:  fees,
		guard: solidity.NewGuard(ctx, solidity.Slot(namespace, "guard")),
		calls: solidity.NewUint64(ctx, solidity.Slot(namespace, "calls")),
	}
}

func (a *NativeApplication) Address() thor.Address {
	return a.addr
}

// Calls returns the number of successful calls.
func (a *NativeApplication) Calls() (uint64, error) {
	return a.calls.Get()
}

// Call takes value from caller, pays the network fee out of it and returns the excess.
func (a *NativeApplication) Call(caller thor.Address, value *big.Int) (*Receipt, error) {
	var receipt *Receipt
	err := a.rt.Exec(func() error {
		return a.guard.Run(func() (err error) {
			receipt, err = a.call(caller, value, nil)
			return
		})
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// call escrows value, charges the network fee, forwards the developer fee
// to the developer when one is given, and refunds the remainder.
func (a *NativeApplication) call(caller thor.Address, value *big.Int, dev *developerCharge) (*Receipt, error) {
	if value == nil {
		value = new(big.Int)
	}
	devFee := new(big.Int)
	if dev != nil {
		devFee = dev.fee
	}
	networkFee, err := a.fees.FeeForPayer(caller)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).Add(networkFee, devFee)
	if value.Cmp(total) < 0 {
		return nil, reverts.InsufficientFee(total, value)
	}

	if err := a.rt.Transfer(caller, a.addr, value); err != nil {
		return nil, err
	}
	if _, err := a.fees.Charge(caller, a.addr, networkFee); err != nil {
		return nil, err
	}
	refund := new(big.Int).Sub(value, total)

	calls, err := a.calls.Get()
	if err != nil {
		return nil, err
	}
	a.calls.Set(calls + 1)

	if dev != nil {
		if err := a.rt.Transfer(a.addr, dev.payee, devFee); err != nil {
			return nil, err
		}
	}
	if err := a.rt.Transfer(a.addr, caller, refund); err != nil {
		return nil, err
	}
	a.rt.Emit(a.addr, "Called", caller, networkFee, devFee, refund)
	logger.Debug("application called", "caller", caller, "network-fee", networkFee, "developer-fee", devFee, "refund", refund)
	return &Receipt{NetworkFee: networkFee, DeveloperFee: devFee, Refund: refund}, nil
}
