// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fees

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"

	"github.com/vechain/accrual/api/utils"
	"github.com/vechain/accrual/builtin/appfee"
	"github.com/vechain/accrual/engine"
)

type API struct {
	engine *engine.Engine
}

func New(e *engine.Engine) *API {
	return &API{e}
}

// getFees reads the cached fee state. It never refreshes the fee, a stale
// fee is reported as such.
func getFees(m *appfee.Manager, now uint64) (*Fees, error) {
	var (
		res = &Fees{Channels: []*Channel{}}
		err error
	)
	bigs := []struct {
		dst **hexutil.Big
		get func() (*big.Int, error)
	}{
		{&res.Fee, m.ViewFee},
		{&res.PriorFee, m.PriorFee},
		{&res.RequiredFeeUSD, m.RequiredFeeUSD},
		{&res.MinFee, m.MinFee},
	}
	for _, b := range bigs {
		v, err := b.get()
		if err != nil {
			return nil, err
		}
		*b.dst = (*hexutil.Big)(v)
	}
	uints := []struct {
		dst *uint64
		get func() (uint64, error)
	}{
		{&res.Epoch, m.Epoch},
		{&res.LastResetTime, m.LastResetTime},
		{&res.NextResetTime, m.NextResetTime},
		{&res.LastDistributionTime, m.LastDistributionTime},
		{&res.LastDistributionBlock, m.LastDistributionBlock},
		{&res.NextDistributionTime, m.NextDistributionTime},
	}
	for _, u := range uints {
		if *u.dst, err = u.get(); err != nil {
			return nil, err
		}
	}
	res.EpochLength = m.EpochLength()
	res.GraceLength = m.GraceLength()
	res.Stale = now >= res.NextResetTime

	channels, err := m.Channels()
	if err != nil {
		return nil, err
	}
	for _, c := range channels {
		releasable, err := m.ChannelReleasable(c.Address)
		if err != nil {
			return nil, err
		}
		res.Channels = append(res.Channels, &Channel{
			Address:    c.Address,
			Weight:     c.Shares,
			Releasable: (*hexutil.Big)(releasable),
		})
	}
	return res, nil
}

func (a *API) handleGetFees(w http.ResponseWriter, _ *http.Request) error {
	var res *Fees
	err := a.engine.View(func(e *engine.Engine) (err error) {
		res, err = getFees(e.Fees, e.Runtime().BlockTime())
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /fees").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetFees))
}
