// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import (
	"math/big"

	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/builtin/solidity"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

var (
	logger = log.WithContext("pkg", "oracle")

	slotPrice     = thor.Blake2b([]byte("price"))
	slotUpdatedAt = thor.Blake2b([]byte("updated-at"))
)

// Oracle is a price feed: native coin price in USD with 18 decimals.
type Oracle interface {
	Consult() (*big.Int, error)
}

// Func adapts a func to Oracle.
type Func func() (*big.Int, error)

func (f Func) Consult() (*big.Int, error) { return f() }

// Stored keeps the price in contract state, set by an authorized updater.
type Stored struct {
	price     *solidity.Uint256
	updatedAt *solidity.Uint64
	auth      authority.Authorizer
}

func NewStored(addr thor.Address, st *state.State, auth authority.Authorizer) *Stored {
	ctx := solidity.NewContext(addr, st)
	return &Stored{
		price:     solidity.NewUint256(ctx, slotPrice),
		updatedAt: solidity.NewUint64(ctx, slotUpdatedAt),
		auth:      auth,
	}
}

// Update sets the price. now is recorded as the update time.
func (s *Stored) Update(caller thor.Address, price *big.Int, now uint64) error {
	if err := authority.Require(s.auth, caller, authority.OracleUpdate); err != nil {
		return err
	}
	if price == nil || price.Sign() <= 0 {
		return reverts.InvalidOraclePrice()
	}
	if err := s.price.Set(price); err != nil {
		return err
	}
	s.updatedAt.Set(now)
	logger.Debug("price updated", "price", price, "time", now)
	return nil
}

// Consult returns the stored price. An unset price reverts with InvalidOraclePrice.
func (s *Stored) Consult() (*big.Int, error) {
	price, err := s.price.Get()
	if err != nil {
		return nil, err
	}
	if price.Sign() == 0 {
		return nil, reverts.InvalidOraclePrice()
	}
	return price, nil
}

func (s *Stored) UpdatedAt() (uint64, error) {
	return s.updatedAt.Get()
}
