package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("addons", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncStageResult("addons", ResultSuccess)
	pr.IncRunOutcome(RunSuccess)
	pr.SetItems(ItemAddons, 3)
	pr.ObserveCloneDuration(time.Second, true)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	require.Contains(t, names, "addonbuilder_stage_duration_seconds")
	require.Contains(t, names, "addonbuilder_run_outcomes_total")
	require.Contains(t, names, "addonbuilder_last_success_timestamp_seconds")
	require.Contains(t, names, "addonbuilder_clone_duration_seconds")

	body := scrape(t, reg)
	require.Contains(t, body, `addonbuilder_run_outcomes_total{outcome="success"} 1`)
	require.Contains(t, body, `addonbuilder_items{kind="addons"} 3`)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveStageDuration("addons", time.Second)
		pr.IncRunOutcome(RunFailed)
		pr.SetItems(ItemLocales, 1)
	})
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(RunCanceled)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).SetItems(ItemLibraries, 2)

	path := filepath.Join(t.TempDir(), "addonbuilder.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `addonbuilder_items{kind="libraries"} 2`)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncRunOutcome(RunFailed)

	require.True(t, strings.Contains(scrape(t, reg), `addonbuilder_run_outcomes_total{outcome="failed"} 1`))
}

func scrape(t *testing.T, reg *prom.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
