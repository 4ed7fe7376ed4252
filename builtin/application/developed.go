// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package application

import (
	"math/big"

	"github.com/vechain/accrual/builtin/appfee"
	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/thor"
)

type developerCharge struct {
	payee thor.Address
	fee   *big.Int
}

// DevelopedApplication is a native application that also charges a developer fee.
type DevelopedApplication struct {
	*NativeApplication
	auth         authority.Authorizer
	developerFee *solidity.Uint256
	developer    *solidity.Address
}

func NewDeveloped(addr thor.Address, rt *runtime.Runtime, auth authority.Authorizer, fees *appfee.Manager) *DevelopedApplication {
	native := NewNative(addr, rt, fees)
	return &DevelopedApplication{
		NativeApplication: native,
		auth:              auth,
		developerFee:      solidity.NewUint256(native.ctx, solidity.Slot(namespace, "developer-fee")),
		developer:         solidity.NewAddress(native.ctx, solidity.Slot(namespace, "developer")),
	}
}

// SetDeveloper sets the developer fee and its payee. The fee must not be below the
// fee manager's minimum.
func (a *DevelopedApplication) SetDeveloper(caller, payee thor.Address, fee *big.Int) error {
	return a.rt.Exec(func() error {
		if err := authority.Require(a.auth, caller, authority.AppDeveloper); err != nil {
			return err
		}
		if payee.IsZero() {
			return reverts.ZeroAddress()
		}
		if err := a.fees.ValidateDeveloperFee(fee); err != nil {
			return err
		}
		if err := a.developerFee.Set(fee); err != nil {
			return err
		}
		a.developer.Set(&payee)
		a.rt.Emit(a.addr, "DeveloperUpdated", payee, fee)
		logger.Info("developer fee updated", "app", a.addr, "payee", payee, "fee", fee)
		return nil
	})
}

func (a *DevelopedApplication) DeveloperFee() (*big.Int, error) {
	return a.developerFee.Get()
}

func (a *DevelopedApplication) Developer() (thor.Address, error) {
	return a.developer.Get()
}

// Call charges the network and developer fees out of value and refunds the excess.
func (a *DevelopedApplication) Call(caller thor.Address, value *big.Int) (*Receipt, error) {
	var receipt *Receipt
	err := a.rt.Exec(func() error {
		return a.guard.Run(func() error {
			payee, err := a.developer.Get()
			if err != nil {
				return err
			}
			fee, err := a.developerFee.Get()
			if err != nil {
				return err
			}
			var dev *developerCharge
			if !payee.IsZero() {
				dev = &developerCharge{payee: payee, fee: fee}
			}
			receipt, err = a.call(caller, value, dev)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}
