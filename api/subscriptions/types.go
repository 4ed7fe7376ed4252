// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/thor"
)

type Event struct {
	Address thor.Address `json:"address"`
	Name    string       `json:"name"`
	Args    []any        `json:"args"`
}

// CommitMessage is pushed for every committed block.
type CommitMessage struct {
	Number uint32   `json:"number"`
	Time   uint64   `json:"timestamp"`
	Events []*Event `json:"events"`
}

func convertCommit(c *engine.Commit, filter func(*Event) bool) *CommitMessage {
	msg := &CommitMessage{
		Number: c.Block.Number,
		Time:   c.Block.Time,
		Events: []*Event{},
	}
	for _, ev := range c.Events {
		args := make([]any, len(ev.Args))
		for i, arg := range ev.Args {
			if b, ok := arg.(*big.Int); ok {
				args[i] = (*hexutil.Big)(b)
				continue
			}
			args[i] = arg
		}
		converted := &Event{Address: ev.Address, Name: ev.Name, Args: args}
		if filter == nil || filter(converted) {
			msg.Events = append(msg.Events, converted)
		}
	}
	return msg
}
