// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages balances and contract storage of built-in contracts.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ commit(bulk) ] -> [ kv store ]
//	         |
//	   [ lru cache ]
//	         |
//	  [ kv store reader ]
//
// Every checkpoint pushes a level on the stacked map, so reverting to a
// checkpoint drops all writes made after it.
package state
