// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/thor"
)

// ConfigVariable is a named numeric constant with a default, overridable by a value in contract storage.
type ConfigVariable struct {
	slot         thor.Bytes32
	name         string
	defaultValue *big.Int
}

func NewConfigVariable(name string, defaultValue *big.Int) *ConfigVariable {
	return &ConfigVariable{
		slot:         thor.BytesToBytes32([]byte(name)),
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

func (c *ConfigVariable) Default() *big.Int {
	return new(big.Int).Set(c.defaultValue)
}

// Get returns the stored override, or the default when the slot is empty.
func (c *ConfigVariable) Get(ctx *Context) (*big.Int, error) {
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		return nil, err
	}
	if storage.IsZero() {
		return c.Default(), nil
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

// Uint64 is Get truncated to uint64, falling back to the default on read failure.
func (c *ConfigVariable) Uint64(ctx *Context) uint64 {
	v, err := c.Get(ctx)
	if err != nil {
		log.Warn("failed to read config value", "slot", c.Name(), "error", err)
		return c.defaultValue.Uint64()
	}
	return v.Uint64()
}

// Override stores value in the variable's slot. A zero value restores the default.
func (c *ConfigVariable) Override(ctx *Context, value *big.Int) error {
	if err := checkRange(value); err != nil {
		return err
	}
	ctx.state.SetStorage(ctx.address, c.slot, thor.BytesToBytes32(value.Bytes()))
	log.Debug("config value overridden", "slot", c.Name(), "value", value)
	return nil
}
