// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package validators

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"

	"github.com/vechain/accrual/api/utils"
	"github.com/vechain/accrual/builtin/splitter"
	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/thor"
)

type API struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *API {
	return &API{e}
}

func getPayee(sp *splitter.Splitter, addr thor.Address) (*Payee, error) {
	shares, err := sp.Shares(addr)
	if err != nil {
		return nil, err
	}
	released, err := sp.Released(addr)
	if err != nil {
		return nil, err
	}
	releasable, err := sp.Releasable(addr)
	if err != nil {
		return nil, err
	}
	return &Payee{
		Address:    addr,
		Shares:     shares,
		Released:   (*hexutil.Big)(released),
		Releasable: (*hexutil.Big)(releasable),
	}, nil
}

func (a *API) handleGetValidators(w http.ResponseWriter, _ *http.Request) error {
	res := &Validators{Validators: []*Payee{}}
	err := a.engine.View(func(e *engine.Engine) error {
		payees, err := e.Validators.Validators()
		if err != nil {
			return err
		}
		for _, p := range payees {
			payee, err := getPayee(e.Validators, p.Address)
			if err != nil {
				return err
			}
			res.Validators = append(res.Validators, payee)
		}
		if res.TotalShares, err = e.Validators.TotalShares(); err != nil {
			return err
		}
		received, err := e.Validators.TotalReceived()
		if err != nil {
			return err
		}
		released, err := e.Validators.TotalReleased()
		if err != nil {
			return err
		}
		res.TotalReceived = (*hexutil.Big)(received)
		res.TotalReleased = (*hexutil.Big)(released)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *API) handleGetReleasable(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	var payee *Payee
	err = a.engine.View(func(e *engine.Engine) (err error) {
		payee, err = getPayee(e.Validators, addr)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, payee)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/validators").
		Methods(http.MethodGet).
		Name("GET /splitter/validators").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetValidators))
	sub.Path("/{account}/releasable").
		Methods(http.MethodGet).
		Name("GET /splitter/{account}/releasable").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetReleasable))
}
