// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine wires the built-in contracts over one state and serializes access to them.
package engine

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/accrual/builtin/appfee"
	"github.com/vechain/accrual/builtin/application"
	"github.com/vechain/accrual/builtin/authority"
	"github.com/vechain/accrual/builtin/oracle"
	"github.com/vechain/accrual/builtin/splitter"
	"github.com/vechain/accrual/builtin/staking"
	"github.com/vechain/accrual/builtin/token"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/state"
	"github.com/vechain/accrual/thor"
)

var logger = log.WithContext("pkg", "engine")

// Built-in contract addresses.
var (
	RolesAddress       = thor.NamedAddress("roles")
	OracleAddress      = thor.NamedAddress("oracle")
	StakeTokenAddress  = thor.NamedAddress("stake-token")
	RewardTokenAddress = thor.NamedAddress("reward-token")
	StakingAddress     = thor.NamedAddress("staking")
	ValidatorsAddress  = thor.NamedAddress("validators")
	FeesAddress        = thor.NamedAddress("appfee")
	AppAddress         = thor.NamedAddress("application")
)

// Commit is the outcome of an Update.
type Commit struct {
	Block  runtime.BlockContext
	Events []*runtime.Event
}

// Engine owns the runtime. A Runtime is not safe for concurrent use, so every
// access goes through Update or View.
type Engine struct {
	mu    sync.Mutex
	rt    *runtime.Runtime
	feed  event.Feed
	scope event.SubscriptionScope

	Roles       *authority.Roles
	Oracle      *oracle.Stored
	StakeToken  *token.Token
	RewardToken *token.Token
	Staking     *staking.Staking
	Validators  *splitter.Splitter
	Fees        *appfee.Manager
	App         *application.DevelopedApplication
}

// New wires the contracts over st.
func New(st *state.State, blk runtime.BlockContext) *Engine {
	rt := runtime.New(st, blk)
	roles := authority.NewRoles(RolesAddress, st)
	stakeToken := token.New(StakeTokenAddress, rt, roles)
	rewardToken := token.New(RewardTokenAddress, rt, roles)
	feed := oracle.NewStored(OracleAddress, st, roles)
	fees := appfee.New(FeesAddress, rt, roles, feed)
	return &Engine{
		rt:          rt,
		Roles:       roles,
		Oracle:      feed,
		StakeToken:  stakeToken,
		RewardToken: rewardToken,
		Staking:     staking.New(StakingAddress, rt, roles, stakeToken, rewardToken),
		Validators:  splitter.New(ValidatorsAddress, rt, roles, splitter.Options{}),
		Fees:        fees,
		App:         application.NewDeveloped(AppAddress, rt, roles, fees),
	}
}

// Bootstrap sets the admin of a fresh state. It is a no-op when an admin exists.
func (e *Engine) Bootstrap(admin thor.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.Roles.Admin()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		logger.Debug("roles already initialized", "admin", current)
		return nil
	}
	if err := e.Roles.Initialize(admin); err != nil {
		return err
	}
	if _, err := e.rt.Commit(); err != nil {
		return err
	}
	logger.Info("engine bootstrapped", "admin", admin)
	return nil
}

// Block returns the current block context.
func (e *Engine) Block() runtime.BlockContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return runtime.BlockContext{Number: e.rt.BlockNumber(), Time: e.rt.BlockTime()}
}

// Update advances the block context to blk and runs fn as one transaction.
// On success the state is committed, the emitted events are returned and
// published to commit subscribers.
func (e *Engine) Update(blk runtime.BlockContext, fn func(*Engine) error) ([]*runtime.Event, error) {
	events, err := e.update(blk, fn)
	if err != nil {
		return nil, err
	}
	e.feed.Send(&Commit{Block: blk, Events: events})
	return events, nil
}

func (e *Engine) update(blk runtime.BlockContext, fn func(*Engine) error) ([]*runtime.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.rt.SetBlockContext(blk); err != nil {
		return nil, err
	}
	if err := e.rt.Exec(func() error { return fn(e) }); err != nil {
		return nil, err
	}
	events, err := e.rt.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return events, nil
}

// SubscribeCommits delivers every successful Update to ch. Updates block until
// ch accepts the commit, so subscribers should buffer.
func (e *Engine) SubscribeCommits(ch chan *Commit) event.Subscription {
	return e.scope.Track(e.feed.Subscribe(ch))
}

// Close ends all commit subscriptions.
func (e *Engine) Close() {
	e.scope.Close()
}

// View runs fn against the current state. Writes made by fn are discarded.
func (e *Engine) View(fn func(*Engine) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.rt.State()
	checkpoint := st.NewCheckpoint()
	defer st.RevertTo(checkpoint)
	return fn(e)
}

// Runtime exposes the runtime to callers already inside Update or View.
func (e *Engine) Runtime() *runtime.Runtime {
	return e.rt
}
