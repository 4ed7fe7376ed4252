// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package appfee

import (
	"math/big"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/oracle"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/builtin/splitter"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/thor"
)

var (
	logger = log.WithContext("pkg", "appfee")

	// EpochLength is the lifetime of the cached fee in seconds.
	EpochLength = solidity.NewConfigVariable("fee-epoch-length", new(big.Int).SetUint64(thor.DefaultFeeEpochLength))
	// GraceLength is how long after a reset the prior fee stays payable.
	GraceLength = solidity.NewConfigVariable("fee-grace-length", new(big.Int).SetUint64(thor.DefaultFeeGraceLength))
	// DistributionInterval gates permissionless distribution.
	DistributionInterval = solidity.NewConfigVariable("fee-distribution-interval", new(big.Int).SetUint64(thor.DefaultDistributionInterval))
)

// Manager prices the network fee in native coin from a USD amount, caches it for an epoch
// and distributes the collected fees to weighted channels.
type Manager struct {
	addr     thor.Address
	rt       *runtime.Runtime
	ctx      *solidity.Context
	auth     authority.Authorizer
	oracle   oracle.Oracle
	storage  *storage
	channels *splitter.Splitter
}

// New creates a fee manager at addr. Value received by addr is credited to the channels.
func New(addr thor.Address, rt *runtime.Runtime, auth authority.Authorizer, o oracle.Oracle) *Manager {
	ctx := solidity.NewContext(addr, rt.State())
	m := &Manager{
		addr:    addr,
		rt:      rt,
		ctx:     ctx,
		auth:    auth,
		oracle:  o,
		storage: newStorage(ctx),
		channels: splitter.New(addr, rt, auth, splitter.Options{
			MaxPayees:   thor.MaxChannels,
			Namespace:   channelsNamespace,
			AdminAction: authority.FeeAdmin,
		}),
	}
	rt.Register(addr, m)
	return m
}

func (m *Manager) Address() thor.Address {
	return m.addr
}

// OnReceive credits incoming value to the channels.
func (m *Manager) OnReceive(_ *runtime.Runtime, from thor.Address, amount *big.Int) error {
	if err := m.channels.Credit(amount); err != nil {
		return err
	}
	m.rt.Emit(m.addr, "FeeReceived", from, amount)
	return nil
}

// GetFee returns the cached fee while the epoch is fresh. Once the epoch has
// expired, the call refreshes the fee from the oracle and starts a new epoch.
func (m *Manager) GetFee() (*big.Int, error) {
	var fee *big.Int
	err := m.rt.Exec(func() (err error) {
		fee, err = m.getFee()
		return
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

func (m *Manager) getFee() (*big.Int, error) {
	next, err := m.storage.nextResetTime.Get()
	if err != nil {
		return nil, err
	}
	if m.rt.BlockTime() < next {
		return m.storage.cachedFee.Get()
	}
	return m.refresh("expiry")
}

// ResetFee forces a refresh regardless of the epoch.
func (m *Manager) ResetFee(caller thor.Address) (*big.Int, error) {
	var fee *big.Int
	err := m.rt.Exec(func() (err error) {
		if err := authority.Require(m.auth, caller, authority.FeeReset); err != nil {
			return err
		}
		fee, err = m.refresh("forced")
		return
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

// ForceFee is an alias of ResetFee.
func (m *Manager) ForceFee(caller thor.Address) (*big.Int, error) {
	return m.ResetFee(caller)
}

func (m *Manager) refresh(trigger string) (*big.Int, error) {
	price, err := m.oracle.Consult()
	if err != nil {
		return nil, err
	}
	if price == nil || price.Sign() <= 0 {
		return nil, reverts.InvalidOraclePrice()
	}
	required, err := m.storage.requiredFeeUSD.Get()
	if err != nil {
		return nil, err
	}
	fee, err := solidity.MulDiv(required, thor.Scale, price)
	if err != nil {
		return nil, err
	}

	prior, err := m.storage.cachedFee.Get()
	if err != nil {
		return nil, err
	}
	if err := m.storage.priorFee.Set(prior); err != nil {
		return nil, err
	}
	if err := m.storage.cachedFee.Set(fee); err != nil {
		return nil, err
	}
	now := m.rt.BlockTime()
	m.storage.lastResetTime.Set(now)
	m.storage.nextResetTime.Set(now + EpochLength.Uint64(m.ctx))
	epoch, err := m.storage.epoch.Get()
	if err != nil {
		return nil, err
	}
	m.storage.epoch.Set(epoch + 1)

	m.rt.Emit(m.addr, "FeeReset", epoch+1, fee, price)
	metricRefresh().AddWithLabel(1, map[string]string{"trigger": trigger})
	logger.Debug("fee refreshed", "epoch", epoch+1, "fee", fee, "price", price, "trigger", trigger)
	return fee, nil
}

// SetRequiredFeeUSD sets the fee in USD with 18 decimals. It applies from the next refresh.
func (m *Manager) SetRequiredFeeUSD(caller thor.Address, usd *big.Int) error {
	return m.rt.Exec(func() error {
		if err := authority.Require(m.auth, caller, authority.FeeAdmin); err != nil {
			return err
		}
		if usd == nil {
			usd = new(big.Int)
		}
		if err := m.storage.requiredFeeUSD.Set(usd); err != nil {
			return err
		}
		m.rt.Emit(m.addr, "RequiredFeeUpdated", usd)
		return nil
	})
}

// SetEpochLength overrides the epoch length. Zero restores the default.
func (m *Manager) SetEpochLength(caller thor.Address, seconds uint64) error {
	return m.override(caller, EpochLength, seconds)
}

// SetGraceLength overrides the grace window. Zero restores the default.
func (m *Manager) SetGraceLength(caller thor.Address, seconds uint64) error {
	return m.override(caller, GraceLength, seconds)
}

// SetDistributionInterval overrides the permissionless distribution interval. Zero restores the default.
func (m *Manager) SetDistributionInterval(caller thor.Address, seconds uint64) error {
	return m.override(caller, DistributionInterval, seconds)
}

func (m *Manager) override(caller thor.Address, v *solidity.ConfigVariable, value uint64) error {
	return m.rt.Exec(func() error {
		if err := authority.Require(m.auth, caller, authority.FeeAdmin); err != nil {
			return err
		}
		if err := v.Override(m.ctx, new(big.Int).SetUint64(value)); err != nil {
			return err
		}
		m.rt.Emit(m.addr, "ConfigUpdated", v.Name(), value)
		logger.Info("fee config updated", "name", v.Name(), "value", v.Uint64(m.ctx))
		return nil
	})
}

// SetMinFee sets the lower bound of developer fees.
func (m *Manager) SetMinFee(caller thor.Address, fee *big.Int) error {
	return m.rt.Exec(func() error {
		if err := authority.Require(m.auth, caller, authority.FeeAdmin); err != nil {
			return err
		}
		if fee == nil {
			fee = new(big.Int)
		}
		if err := m.storage.minFee.Set(fee); err != nil {
			return err
		}
		m.rt.Emit(m.addr, "MinFeeUpdated", fee)
		return nil
	})
}

// ValidateDeveloperFee rejects fees below the minimum.
func (m *Manager) ValidateDeveloperFee(fee *big.Int) error {
	minFee, err := m.storage.minFee.Get()
	if err != nil {
		return err
	}
	if fee == nil {
		fee = new(big.Int)
	}
	if fee.Cmp(minFee) < 0 {
		return reverts.FeeBelowMinimum(fee, minFee)
	}
	return nil
}
