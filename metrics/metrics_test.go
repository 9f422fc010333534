package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	m := New()
	m.Neighbors("access-sw1", 3)
	m.Lookups("ok", 3)
	m.Update("applied")
	m.Update("rejected")
	m.Run("ok", 2*time.Second)

	srv := httptest.NewServer(m.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `cdpcucm_neighbors_discovered_total{switch="access-sw1"} 3`)
	assert.Contains(t, string(body), `cdpcucm_interface_updates_total{result="rejected"} 1`)
	assert.Contains(t, string(body), `cdpcucm_switch_runs_total{result="ok"} 1`)

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Neighbors("sw", 1)
		m.Lookups("ok", 1)
		m.Update("applied")
		m.Run("ok", time.Second)
	})
}
