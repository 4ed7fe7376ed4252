// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"

	"github.com/vechain/accrual/api/utils"
	"github.com/vechain/accrual/builtin/staking"
	"github.com/vechain/accrual/engine"
)

type Stakes struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *Stakes {
	return &Stakes{e}
}

func getTotals(s *staking.Staking) (*Totals, error) {
	totalStaked, err := s.TotalStaked()
	if err != nil {
		return nil, err
	}
	token, err := s.TotalStakedToken()
	if err != nil {
		return nil, err
	}
	native, err := s.TotalStakedNative()
	if err != nil {
		return nil, err
	}
	rate, err := s.RewardRate()
	if err != nil {
		return nil, err
	}
	rpt, err := s.RewardPerToken()
	if err != nil {
		return nil, err
	}
	finishAt, err := s.FinishAt()
	if err != nil {
		return nil, err
	}
	lastUpdate, err := s.LastUpdateTime()
	if err != nil {
		return nil, err
	}
	return &Totals{
		TotalStaked:       (*hexutil.Big)(totalStaked),
		TotalStakedToken:  (*hexutil.Big)(token),
		TotalStakedNative: (*hexutil.Big)(native),
		RewardRate:        (*hexutil.Big)(rate),
		RewardPerToken:    (*hexutil.Big)(rpt),
		FinishAt:          finishAt,
		LastUpdateTime:    lastUpdate,
		Duration:          s.Duration(),
	}, nil
}

func (s *Stakes) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	var totals *Totals
	err := s.engine.View(func(e *engine.Engine) (err error) {
		totals, err = getTotals(e.Staking)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, totals)
}

func (s *Stakes) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	var acc *Account
	err = s.engine.View(func(e *engine.Engine) error {
		rec, err := e.Staking.Record(addr)
		if err != nil {
			return err
		}
		earned, err := e.Staking.Earned(addr)
		if err != nil {
			return err
		}
		totals, err := getTotals(e.Staking)
		if err != nil {
			return err
		}
		acc = &Account{
			Address:      addr,
			TokenAmount:  (*hexutil.Big)(rec.TokenAmount),
			NativeAmount: (*hexutil.Big)(rec.NativeAmount),
			Balance:      (*hexutil.Big)(rec.Balance()),
			Earned:       (*hexutil.Big)(earned),
			Totals:       totals,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staking").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetTotals))
	sub.Path("/{account}").
		Methods(http.MethodGet).
		Name("GET /staking/{account}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
}
