// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

// Context binds storage wrappers to a contract address.
type Context struct {
	address thor.Address
	state   *state.State
}

func NewContext(address thor.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() thor.Address {
	return c.address
}

// Slot derives a storage position from a name within a namespace.
// Embedded contracts sharing an address use distinct namespaces.
func Slot(namespace, name string) thor.Bytes32 {
	if namespace == "" {
		return thor.BytesToBytes32([]byte(name))
	}
	return thor.Blake2b([]byte(namespace), []byte(name))
}
