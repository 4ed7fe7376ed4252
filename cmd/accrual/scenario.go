// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/accrual/builtin/reverts"
	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/runtime"
	"github.com/vechain/accrual/thor"
)

// Step is one timestamped operation. At is the offset in seconds from genesis.
type Step struct {
	At     uint64 `yaml:"at"`
	Op     string `yaml:"op"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Token  string `yaml:"token"`
	Amount Amount `yaml:"amount"`
	Native Amount `yaml:"native"`
	Shares uint64 `yaml:"shares"`
	Index  uint64 `yaml:"index"`
	// Expect is the revert code or name the step must fail with. Empty means it must succeed.
	Expect string `yaml:"expect"`
}

type Scenario struct {
	Steps []Step `yaml:"steps"`
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	for i, step := range sc.Steps {
		if _, ok := operations[step.Op]; !ok {
			return nil, errors.Errorf("step %d: unknown op %q", i, step.Op)
		}
		if i > 0 && step.At < sc.Steps[i-1].At {
			return nil, errors.Errorf("step %d: steps must be ordered by time", i)
		}
	}
	return &sc, nil
}

// operation runs a step and returns a printable result, or nil.
type operation func(e *engine.Engine, s *Step) (any, error)

var operations = map[string]operation{
	"transfer": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Runtime().Transfer(s.from(), s.to(), s.Amount.Value())
	},
	"mint": func(e *engine.Engine, s *Step) (any, error) {
		tok, err := s.token(e)
		if err != nil {
			return nil, err
		}
		return nil, tok.Mint(s.from(), s.to(), s.Amount.Value())
	},
	"approve": func(e *engine.Engine, s *Step) (any, error) {
		tok, err := s.token(e)
		if err != nil {
			return nil, err
		}
		return nil, tok.Approve(s.from(), s.to(), s.Amount.Value())
	},
	"stake": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Staking.Stake(s.from(), s.Amount.Value(), s.Native.Value())
	},
	"withdraw": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Staking.Withdraw(s.from(), s.Amount.Value(), s.Native.Value())
	},
	"claim": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Staking.GetReward(s.from())
	},
	"exit": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Staking.Exit(s.from())
	},
	"notify": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Staking.NotifyRewardAmount(s.from(), s.Amount.Value())
	},
	"earned": func(e *engine.Engine, s *Step) (any, error) {
		return e.Staking.Earned(s.from())
	},
	"add-validator": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Validators.AddValidator(s.from(), s.to(), s.Shares)
	},
	"adjust-validator": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Validators.AdjustValidatorShares(s.from(), s.to(), s.Shares)
	},
	"remove-validator": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Validators.RemoveValidator(s.from(), s.to(), s.Index)
	},
	"release": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Validators.Release(s.to())
	},
	"release-all": func(e *engine.Engine, _ *Step) (any, error) {
		return e.Validators.ReleaseAll()
	},
	"releasable": func(e *engine.Engine, s *Step) (any, error) {
		return e.Validators.Releasable(s.to())
	},
	"oracle": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Oracle.Update(s.from(), s.Amount.Value(), e.Runtime().BlockTime())
	},
	"fee": func(e *engine.Engine, s *Step) (any, error) {
		return e.Fees.FeeForPayer(s.from())
	},
	"pay-fee": func(e *engine.Engine, s *Step) (any, error) {
		return e.Fees.PayFee(s.from(), s.Amount.Value())
	},
	"reset-fee": func(e *engine.Engine, s *Step) (any, error) {
		return e.Fees.ResetFee(s.from())
	},
	"add-channel": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.Fees.AddChannel(s.from(), s.to(), s.Shares)
	},
	"distribute": func(e *engine.Engine, s *Step) (any, error) {
		return e.Fees.DistributeFeesToChannels(s.from())
	},
	"set-developer": func(e *engine.Engine, s *Step) (any, error) {
		return nil, e.App.SetDeveloper(s.from(), s.to(), s.Amount.Value())
	},
	"call-app": func(e *engine.Engine, s *Step) (any, error) {
		return e.App.Call(s.from(), s.Amount.Value())
	},
	"balance": func(e *engine.Engine, s *Step) (any, error) {
		return e.Runtime().State().GetBalance(s.to())
	},
}

func (s *Step) from() thor.Address { return thor.NamedAddress(s.From) }

func (s *Step) to() thor.Address { return thor.NamedAddress(s.To) }

type mintable interface {
	Mint(caller, to thor.Address, amount *big.Int) error
	Approve(owner, spender thor.Address, amount *big.Int) error
}

func (s *Step) token(e *engine.Engine) (mintable, error) {
	switch s.Token {
	case "stake":
		return e.StakeToken, nil
	case "reward":
		return e.RewardToken, nil
	}
	return nil, errors.Errorf("unknown token %q", s.Token)
}

// Result is the outcome of one step.
type Result struct {
	Step   *Step
	Block  runtime.BlockContext
	Value  any
	Err    error
	Events []*runtime.Event
}

func (r *Result) String() string {
	head := fmt.Sprintf("#%d t=%d %s", r.Block.Number, r.Block.Time, r.Step.Op)
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s reverted: %v", head, r.Err)
	case r.Value != nil:
		return fmt.Sprintf("%s ok %v events=%d", head, r.Value, len(r.Events))
	default:
		return fmt.Sprintf("%s ok events=%d", head, len(r.Events))
	}
}

func matchRevert(err error, want string) bool {
	var re *reverts.ErrRevert
	if !errors.As(err, &re) {
		return false
	}
	return re.Code() == want || re.Name() == want
}

// run replays the steps, one block per step. A step failing other than
// expected stops the run.
func (sc *Scenario) run(e *engine.Engine, genesis uint64, out io.Writer) ([]*Result, error) {
	results := make([]*Result, 0, len(sc.Steps))
	for i := range sc.Steps {
		step := &sc.Steps[i]
		blk := e.Block()
		res := &Result{
			Step:  step,
			Block: runtime.BlockContext{Number: blk.Number + 1, Time: max(genesis+step.At, blk.Time)},
		}
		res.Events, res.Err = e.Update(res.Block, func(e *engine.Engine) (err error) {
			res.Value, err = operations[step.Op](e, step)
			return
		})
		results = append(results, res)
		fmt.Fprintln(out, res)

		switch {
		case step.Expect == "" && res.Err != nil:
			return results, errors.Wrapf(res.Err, "step %d (%s)", i, step.Op)
		case step.Expect != "" && !matchRevert(res.Err, step.Expect):
			return results, errors.Errorf("step %d (%s): expected revert %s, got %v", i, step.Op, step.Expect, res.Err)
		}
	}
	return results, nil
}
