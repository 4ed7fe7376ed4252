// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/metrics"
	"github.com/vechain/accrual/test/testengine"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func TestMetricsMiddleware(t *testing.T) {
	env, err := testengine.New()
	require.NoError(t, err)
	defer env.Close()

	handler, closeSubs := New(env.Engine, Options{AllowedOrigins: "*", EnableMetrics: true})
	ts := httptest.NewServer(handler)
	defer ts.Close()
	defer closeSubs()

	httpGet(t, ts.URL+"/staking")
	httpGet(t, ts.URL+"/staking/"+testengine.DevAccounts[0].String())
	_, code := httpGet(t, ts.URL+"/staking/0x")
	assert.Equal(t, http.StatusBadRequest, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["accrual_api_request_count"].GetMetric()
	require.Equal(t, 3, len(m), "should be 3 metric entries")

	for i, want := range []struct{ code, name string }{
		{"200", "staking"},
		{"200", "staking_account"},
		{"400", "staking_account"},
	} {
		assert.Equal(t, float64(1), m[i].GetCounter().GetValue())
		labels := m[i].GetLabel()
		require.Equal(t, 3, len(labels))
		assert.Equal(t, "code", labels[0].GetName())
		assert.Equal(t, want.code, labels[0].GetValue())
		assert.Equal(t, "method", labels[1].GetName())
		assert.Equal(t, "GET", labels[1].GetValue())
		assert.Equal(t, "name", labels[2].GetName())
		assert.Equal(t, want.name, labels[2].GetValue())
	}

	h := families["accrual_api_duration_ms"].GetMetric()
	require.Equal(t, 1, len(h))
	assert.Equal(t, uint64(3), h[0].GetHistogram().GetSampleCount())
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}
