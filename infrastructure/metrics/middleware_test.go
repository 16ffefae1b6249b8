package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassiecattabiani-cyber/internal-linking-tool/infrastructure/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// counterValue returns the sample of name whose labels include all of want.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, want) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	matched := 0
	for _, lp := range m.GetLabel() {
		if v, ok := want[lp.GetName()]; ok && v == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg, "linking")

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/v1/oncrawl/crawl/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/oncrawl/crawl/"+id, http.NoBody))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", http.NoBody))

	assert.InDelta(t, 2, counterValue(t, reg, "linking_http_requests_total", map[string]string{
		"method": "GET", "route": "/api/v1/oncrawl/crawl/:id", "status": "200",
	}), 0)
	assert.InDelta(t, 1, counterValue(t, reg, "linking_http_requests_total", map[string]string{
		"route": "unmatched", "status": "404",
	}), 0)
}
