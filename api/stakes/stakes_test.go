// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/api/stakes"
	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/test/datagen"
	"github.com/vechain/accrual/test/testengine"
	"github.com/vechain/accrual/thor"
)

var ts *httptest.Server

func TestStakes(t *testing.T) {
	env := initStakesServer(t)
	defer env.Close()
	defer ts.Close()

	for name, tt := range map[string]func(*testing.T){
		"getTotals":         getTotals,
		"getAccount":        getAccount,
		"getUnknownAccount": getUnknownAccount,
		"getInvalidAccount": getInvalidAccount,
	} {
		t.Run(name, tt)
	}
}

func initStakesServer(t *testing.T) *testengine.Env {
	env, err := testengine.New()
	require.NoError(t, err)

	_, err = env.Advance(10, func(e *engine.Engine) error {
		if err := e.Staking.SetRewardsDuration(testengine.Admin, 100); err != nil {
			return err
		}
		if err := e.RewardToken.Mint(testengine.Admin, engine.StakingAddress, big.NewInt(1000)); err != nil {
			return err
		}
		if err := e.Staking.NotifyRewardAmount(testengine.Admin, big.NewInt(1000)); err != nil {
			return err
		}
		return e.Staking.Stake(testengine.DevAccounts[0], big.NewInt(30), big.NewInt(70))
	})
	require.NoError(t, err)
	_, err = env.Advance(50, func(*engine.Engine) error { return nil })
	require.NoError(t, err)

	router := mux.NewRouter()
	stakes.New(env.Engine).Mount(router, "/staking")
	ts = httptest.NewServer(router)
	return env
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func getTotals(t *testing.T) {
	body, code := httpGet(t, ts.URL+"/staking")
	require.Equal(t, http.StatusOK, code)

	var totals stakes.Totals
	require.NoError(t, json.Unmarshal(body, &totals))
	assert.Equal(t, big.NewInt(100), totals.TotalStaked.ToInt())
	assert.Equal(t, big.NewInt(30), totals.TotalStakedToken.ToInt())
	assert.Equal(t, big.NewInt(70), totals.TotalStakedNative.ToInt())
	assert.Equal(t, big.NewInt(10), totals.RewardRate.ToInt())
	assert.Equal(t, uint64(100), totals.Duration)
	assert.Equal(t, testengine.GenesisTime+110, totals.FinishAt)
}

func getAccount(t *testing.T) {
	body, code := httpGet(t, ts.URL+"/staking/"+testengine.DevAccounts[0].String())
	require.Equal(t, http.StatusOK, code)

	var acc stakes.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, testengine.DevAccounts[0], acc.Address)
	assert.Equal(t, big.NewInt(100), acc.Balance.ToInt())
	assert.Equal(t, big.NewInt(500), acc.Earned.ToInt())
	assert.NotNil(t, acc.Totals)
}

func getUnknownAccount(t *testing.T) {
	body, code := httpGet(t, ts.URL+"/staking/"+datagen.RandAddress().String())
	require.Equal(t, http.StatusOK, code)

	var acc stakes.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	assert.Equal(t, 0, acc.Balance.ToInt().Sign())
	assert.Equal(t, 0, acc.Earned.ToInt().Sign())
}

func getInvalidAccount(t *testing.T) {
	_, code := httpGet(t, ts.URL+"/staking/0x1234")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpGet(t, ts.URL+"/staking/"+thor.Address{}.String()+"/extra")
	assert.Equal(t, http.StatusNotFound, code)
}
