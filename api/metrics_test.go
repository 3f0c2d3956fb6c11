// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whoosh-bridge/whoosh/api/accounts"
	"github.com/whoosh-bridge/whoosh/api/subscriptions"
	"github.com/whoosh-bridge/whoosh/metrics"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func TestMetricsMiddleware(t *testing.T) {
	led, _, key := newTestLedger(t)
	addr := whoosh.AddressFromPubKey(&key.PublicKey)

	router := mux.NewRouter()
	accounts.New(led).Mount(router, "/accounts")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	_, code := httpGet(t, ts.URL+"/accounts/"+addr.String())
	assert.Equal(t, 200, code)
	_, code = httpGet(t, ts.URL+"/accounts/xyz")
	assert.Equal(t, 400, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	assert.Nil(t, err)

	m := families["whoosh_metrics_api_request_count"].GetMetric()
	assert.Equal(t, 2, len(m), "should be 2 metric entries")
	assert.Equal(t, float64(1), m[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), m[1].GetCounter().GetValue())

	labels := m[0].GetLabel()
	assert.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "200", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "path", labels[2].GetName())
	assert.Equal(t, "accounts_"+addr.String(), labels[2].GetValue())

	labels = m[1].GetLabel()
	assert.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "400", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "path", labels[2].GetName())
	assert.Equal(t, "accounts_xyz", labels[2].GetValue())
}

func TestWebsocketThroughMetricsMiddleware(t *testing.T) {
	led, journal, key := newTestLedger(t)
	bridgeTransfer(t, led, key, 0, 60_000)

	subs := subscriptions.New(led, journal, 10)
	t.Cleanup(subs.Close)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	// the upgrade hijacks the conn through the wrapping metrics writer
	u := url.URL{
		Scheme:   "ws",
		Host:     strings.TrimPrefix(ts.URL, "http://"),
		Path:     "/subscriptions/messages",
		RawQuery: "pos=0",
	}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"requestID"`)
}
