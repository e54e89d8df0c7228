package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveRender(t *testing.T) {
	m := NewMetrics()
	m.ObserveRender(25*time.Millisecond, 2, nil)
	m.ObserveRender(0, 0, errors.New("boom"))

	out := scrape(t, m)
	assert.Contains(t, out, `starhash_renders_total{outcome="ok"} 1`)
	assert.Contains(t, out, `starhash_renders_total{outcome="error"} 1`)
	assert.Contains(t, out, `starhash_bodies_omitted_total 2`)
	assert.True(t, strings.Contains(out, "starhash_render_duration_seconds_count 1"),
		"duration recorded only for successful renders")
}

func TestObserveLocationSource(t *testing.T) {
	m := NewMetrics()
	m.ObserveLocationSource("query")
	m.ObserveLocationSource("query")
	m.ObserveLocationSource("default")

	out := scrape(t, m)
	assert.Contains(t, out, `starhash_location_source_total{source="query"} 2`)
	assert.Contains(t, out, `starhash_location_source_total{source="default"} 1`)
}

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	// Two instances must not clash; each carries its own registry.
	a := NewMetrics()
	b := NewMetrics()
	a.ObserveLocationSource("query")
	assert.NotContains(t, scrape(t, b), `source="query"`)
}
