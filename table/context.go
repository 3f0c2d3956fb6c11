// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package table

import (
	"github.com/whoosh-bridge/whoosh/state"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// Context binds a storage namespace to a state instance. All cells and tables
// created from one context share the namespace address, so their slots never
// collide with those of another namespace.
type Context struct {
	address whoosh.Address
	state   *state.State
}

func NewContext(address whoosh.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() whoosh.Address {
	return c.address
}
