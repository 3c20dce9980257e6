package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beefboard/boardclient/internal/client/config"
	"github.com/beefboard/boardclient/internal/logging"
)

func TestMetricsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "beefboard_test_total"})
	reg.MustRegister(c)
	c.Inc()

	h := metricsRouter(reg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "beefboard_test_total 1")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartObservability_ServesMetrics(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.MetricsAddr = "127.0.0.1:0"

	o, err := startObservability(cfg, io.Discard, logging.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, o.Close(context.Background())) }()

	resp, err := http.Get("http://" + o.addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
