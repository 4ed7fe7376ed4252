// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

const maxCallDepth = 64

var (
	logger = log.WithContext("pkg", "runtime")

	// ErrCallDepth is returned when nested calls exceed maxCallDepth.
	ErrCallDepth = errors.New("max call depth exceeded")
	// ErrTimeReversed is returned when the block context moves back in time.
	ErrTimeReversed = errors.New("block time must not decrease")
)

// BlockContext is the consensus supplied environment of a call.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// Receiver is implemented by contracts observing incoming native value.
// An error fails the transfer that delivered the value.
type Receiver interface {
	OnReceive(rt *Runtime, from thor.Address, amount *big.Int) error
}

// ReceiverFunc adapts a func to Receiver.
type ReceiverFunc func(rt *Runtime, from thor.Address, amount *big.Int) error

func (f ReceiverFunc) OnReceive(rt *Runtime, from thor.Address, amount *big.Int) error {
	return f(rt, from, amount)
}

// Event is a log record emitted by a contract.
type Event struct {
	Address     thor.Address
	Name        string
	Args        []any
	BlockNumber uint32
}

// Runtime executes contract operations over the state. Every Exec is all-or-nothing.
// It is not safe for concurrent use.
type Runtime struct {
	state     *state.State
	ctx       BlockContext
	receivers map[thor.Address]Receiver
	events    []*Event
	depth     int
}

// New create a Runtime object.
func New(state *state.State, ctx BlockContext) *Runtime {
	return &Runtime{
		state:     state,
		ctx:       ctx,
		receivers: make(map[thor.Address]Receiver),
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) BlockNumber() uint32 { return rt.ctx.Number }
func (rt *Runtime) BlockTime() uint64   { return rt.ctx.Time }

// SetBlockContext moves the runtime to a new block.
func (rt *Runtime) SetBlockContext(ctx BlockContext) error {
	if ctx.Time < rt.ctx.Time {
		return errors.Wrapf(ErrTimeReversed, "from %v to %v", rt.ctx.Time, ctx.Time)
	}
	rt.ctx = ctx
	return nil
}

// Register installs the receive hook of addr.
func (rt *Runtime) Register(addr thor.Address, r Receiver) {
	rt.receivers[addr] = r
}

// Exec runs fn inside a checkpoint. On error the state and the events emitted by fn are discarded.
// Calls nest, an inner failure only reverts the inner call.
func (rt *Runtime) Exec(fn func() error) error {
	if rt.depth >= maxCallDepth {
		return ErrCallDepth
	}
	rt.depth++
	defer func() { rt.depth-- }()

	checkpoint := rt.state.NewCheckpoint()
	nEvents := len(rt.events)
	if err := fn(); err != nil {
		rt.state.RevertTo(checkpoint)
		rt.events = rt.events[:nEvents]
		return err
	}
	return nil
}

// Transfer moves native value and then invokes the receive hook of the recipient.
func (rt *Runtime) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	return rt.Exec(func() error {
		ok, err := rt.state.SubBalance(from, amount)
		if err != nil {
			return err
		}
		if !ok {
			bal, err := rt.state.GetBalance(from)
			if err != nil {
				return err
			}
			return reverts.InsufficientBalance(from, bal, amount)
		}
		if err := rt.state.AddBalance(to, amount); err != nil {
			return err
		}
		if r, ok := rt.receivers[to]; ok {
			if err := r.OnReceive(rt, from, amount); err != nil {
				logger.Debug("receive hook rejected transfer", "from", from, "to", to, "amount", amount, "err", err)
				return reverts.TransferFailed(to, amount)
			}
		}
		metricTransfers().AddWithLabel(1, map[string]string{"hook": hookLabel(rt.receivers[to] != nil)})
		return nil
	})
}

func hookLabel(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Emit appends event to the log.
func (rt *Runtime) Emit(addr thor.Address, name string, args ...any) {
	rt.events = append(rt.events, &Event{
		Address:     addr,
		Name:        name,
		Args:        args,
		BlockNumber: rt.ctx.Number,
	})
}

// Events returns the events emitted so far.
func (rt *Runtime) Events() []*Event {
	return rt.events
}

// Commit flushes the state and clears the event log. It must not be called inside Exec.
func (rt *Runtime) Commit() ([]*Event, error) {
	if rt.depth != 0 {
		return nil, errors.New("commit inside call")
	}
	n, err := rt.state.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	events := rt.events
	rt.events = nil
	logger.Trace("state committed", "keys", n, "events", len(events), "block", rt.ctx.Number)
	return events, nil
}
